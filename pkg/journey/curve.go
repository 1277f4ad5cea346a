// Package journey 实现顾客行程动画与镜头编排核心。
//
// 该包只负责数学与状态：路径曲线构建、进度时间轴、移动/朝向更新、
// 罗盘世界旋转、镜头状态机、接近事件引擎。几何渲染、资源加载、
// 输入绑定等都由外部协作方（pkg/scenes、pkg/app）完成。
package journey

import (
	"fmt"
	"math"
	"sort"

	"github.com/decker502/shopwalk/pkg/utils"
)

const (
	// CornerRadiusRatio 圆角半径与相邻线段长度的最大比例
	// 保证相邻两个圆角永远不会重叠
	CornerRadiusRatio = 0.4

	// cornerSubdivisions 每个圆角的二次贝塞尔细分段数
	cornerSubdivisions = 16

	// splineSubdivisions 样条插值时每个控制点区间的细分段数
	// 控制点在圆角附近已经足够密集，8 段足以建立精确的弧长表
	splineSubdivisions = 8

	// centripetalAlpha 向心 Catmull-Rom 样条的参数化指数
	// 0.5 对应向心参数化，急转弯处不会产生过冲和自交
	centripetalAlpha = 0.5
)

// PathCurve 不可变的参数化路径曲线
//
// 由路径点序列构建，内部保存密集采样点和对应的累计弧长表，
// 所有查询都基于弧长占比 f ∈ [0, 1]（而非原始样条参数），
// 因此相等的进度增量对应相等的行进距离，与圆角密度无关。
// 切换路径时整体替换实例，不做原地修改。
type PathCurve struct {
	points []utils.Vec2 // 密集采样点
	arcLen []float64    // points[i] 处的累计弧长
	total  float64      // 曲线总长
}

// BuildCurve 根据路径点和圆角半径构建路径曲线
//
// 每个内部路径点（拐角）的有效半径为
// min(cornerRadius, 0.4 × min(到前一点距离, 到后一点距离))，
// 拐角被替换为"直线段 + 以原拐角为控制点的二次贝塞尔弧 + 直线段"，
// 再用向心 Catmull-Rom 样条整体插值，保证 C¹ 连续且不过冲。
//
// 参数：
//   - waypoints: 地板平面路径点，至少 2 个
//   - cornerRadius: 期望的圆角半径（≤0 表示不倒角）
func BuildCurve(waypoints []utils.Vec2, cornerRadius float64) (*PathCurve, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("path needs at least 2 waypoints, got %d", len(waypoints))
	}

	control := roundCorners(dropDuplicates(waypoints), cornerRadius)
	if len(control) < 2 {
		return nil, fmt.Errorf("path is degenerate: all waypoints coincide")
	}

	points := sampleSpline(control)

	arcLen := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
		arcLen[i] = total
	}
	if total <= 0 {
		return nil, fmt.Errorf("path has zero length")
	}

	return &PathCurve{points: points, arcLen: arcLen, total: total}, nil
}

// Length 曲线总长（距离单位）
func (c *PathCurve) Length() float64 {
	return c.total
}

// PointAt 返回弧长占比 f 处的曲线坐标
// f 会被限制在 [0, 1]；f=0 和 f=1 精确对应首尾路径点
func (c *PathCurve) PointAt(f float64) utils.Vec2 {
	f = utils.Clamp01(f)
	target := f * c.total
	if target <= 0 {
		return c.points[0]
	}
	if target >= c.total {
		return c.points[len(c.points)-1]
	}

	// 弧长表二分查找：找到第一个 arcLen[i] >= target 的采样点
	i := sort.SearchFloat64s(c.arcLen, target)
	prev := c.arcLen[i-1]
	seg := c.arcLen[i] - prev
	if seg <= 0 {
		return c.points[i]
	}
	t := (target - prev) / seg
	return c.points[i-1].Lerp(c.points[i], t)
}

// TangentAt 返回弧长占比 f 处的单位切向量
// 通过弧长域上的中心差分计算；端点处退化为单侧差分
func (c *PathCurve) TangentAt(f float64) utils.Vec2 {
	const h = 1e-3
	f = utils.Clamp01(f)
	lo := math.Max(0, f-h)
	hi := math.Min(1, f+h)
	d := c.PointAt(hi).Sub(c.PointAt(lo))
	if d.Length() == 0 {
		// 极端情况（曲线极短）：退回首尾方向
		d = c.points[len(c.points)-1].Sub(c.points[0])
	}
	return d.Normalize()
}

// dropDuplicates 去掉连续重合的路径点，避免零长度线段破坏方向计算
func dropDuplicates(waypoints []utils.Vec2) []utils.Vec2 {
	const eps = 1e-9
	out := make([]utils.Vec2, 0, len(waypoints))
	for _, p := range waypoints {
		if len(out) > 0 && out[len(out)-1].Distance(p) < eps {
			continue
		}
		out = append(out, p)
	}
	return out
}

// roundCorners 把每个内部拐角替换为二次贝塞尔圆角
// 返回供样条插值的控制点序列（首尾为原始端点）
func roundCorners(waypoints []utils.Vec2, radius float64) []utils.Vec2 {
	if len(waypoints) < 3 || radius <= 0 {
		return waypoints
	}

	out := make([]utils.Vec2, 0, len(waypoints)*cornerSubdivisions)
	out = append(out, waypoints[0])

	for i := 1; i < len(waypoints)-1; i++ {
		corner := waypoints[i]
		distPrev := corner.Distance(waypoints[i-1])
		distNext := corner.Distance(waypoints[i+1])

		r := math.Min(radius, CornerRadiusRatio*math.Min(distPrev, distNext))
		if r <= 1e-9 {
			out = append(out, corner)
			continue
		}

		inDir := corner.Sub(waypoints[i-1]).Normalize()
		outDir := waypoints[i+1].Sub(corner).Normalize()
		entry := corner.Sub(inDir.Scale(r))
		exit := corner.Add(outDir.Scale(r))

		// 二次贝塞尔：entry → corner(控制点) → exit
		for j := 0; j <= cornerSubdivisions; j++ {
			t := float64(j) / cornerSubdivisions
			out = append(out, quadraticBezier(entry, corner, exit, t))
		}
	}

	out = append(out, waypoints[len(waypoints)-1])
	return dropDuplicates(out)
}

// quadraticBezier 二次贝塞尔插值：B(t) = (1-t)²·p0 + 2t(1-t)·c + t²·p1
func quadraticBezier(p0, c, p1 utils.Vec2, t float64) utils.Vec2 {
	u := 1 - t
	return p0.Scale(u * u).Add(c.Scale(2 * u * t)).Add(p1.Scale(t * t))
}

// sampleSpline 用向心 Catmull-Rom 样条对控制点序列做密集采样
// 端点通过镜像外推虚拟邻点，保证首尾切向自然
func sampleSpline(control []utils.Vec2) []utils.Vec2 {
	n := len(control)
	if n == 2 {
		// 两点退化为直线，直接细分
		out := make([]utils.Vec2, 0, splineSubdivisions+1)
		for j := 0; j <= splineSubdivisions; j++ {
			out = append(out, control[0].Lerp(control[1], float64(j)/splineSubdivisions))
		}
		return out
	}

	// 镜像外推虚拟端点：p[-1] = 2·p[0] - p[1]，p[n] = 2·p[n-1] - p[n-2]
	first := control[0].Scale(2).Sub(control[1])
	last := control[n-1].Scale(2).Sub(control[n-2])

	neighbor := func(i int) utils.Vec2 {
		switch {
		case i < 0:
			return first
		case i >= n:
			return last
		default:
			return control[i]
		}
	}

	out := make([]utils.Vec2, 0, (n-1)*splineSubdivisions+1)
	out = append(out, control[0])
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := neighbor(i-1), control[i], control[i+1], neighbor(i+2)
		for j := 1; j <= splineSubdivisions; j++ {
			t := float64(j) / splineSubdivisions
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	return dropDuplicates(out)
}

// catmullRom 向心 Catmull-Rom 插值（Barry-Goldman 递归形式）
// 返回 p1 与 p2 之间参数 t ∈ [0, 1] 处的点
func catmullRom(p0, p1, p2, p3 utils.Vec2, t float64) utils.Vec2 {
	knot := func(a, b utils.Vec2, prev float64) float64 {
		d := a.Distance(b)
		if d <= 0 {
			// 重合点：给一个极小的节点间隔，避免除零
			d = 1e-9
		}
		return prev + math.Pow(d, centripetalAlpha)
	}
	t0 := 0.0
	t1 := knot(p0, p1, t0)
	t2 := knot(p1, p2, t1)
	t3 := knot(p2, p3, t2)

	tt := utils.Lerp(t1, t2, t)

	blend := func(a, b utils.Vec2, ta, tb float64) utils.Vec2 {
		if tb == ta {
			return a
		}
		w := (tt - ta) / (tb - ta)
		return a.Scale(1 - w).Add(b.Scale(w))
	}
	a1 := blend(p0, p1, t0, t1)
	a2 := blend(p1, p2, t1, t2)
	a3 := blend(p2, p3, t2, t3)
	b1 := blend(a1, a2, t0, t2)
	b2 := blend(a2, a3, t1, t3)
	return blend(b1, b2, t1, t2)
}
