package journey

import "github.com/decker502/shopwalk/pkg/utils"

// DefaultRibbonSamples 路径条带的默认弧长均匀采样数
const DefaultRibbonSamples = 600

// RibbonVertex 条带顶点
//
// Progress 是该顶点所在采样点的弧长占比，渲染层用它和当前行程进度
// 比较，实现"走过即擦除、前方渐次显露"的效果；采样器本身不做擦除。
type RibbonVertex struct {
	Position utils.Vec2 // 地板平面坐标
	Progress float64    // 弧长占比 ∈ [0, 1]
}

// RibbonGeometry 路径可视化条带几何
//
// 顶点按采样顺序成对排列（左、右交替），Indices 把相邻两对顶点
// 连成两个三角形，可直接喂给渲染层的三角形批量绘制。
type RibbonGeometry struct {
	Vertices []RibbonVertex
	Indices  []uint16
	Width    float64
}

// BuildRibbon 沿曲线按弧长均匀采样，生成固定宽度的条带几何
//
// 每个采样点沿局部切线的法向偏移 ±width/2 生成左右两个顶点，
// 并写入该采样点的弧长占比作为逐顶点进度属性。
//
// 参数：
//   - curve: 路径曲线
//   - width: 条带总宽度（距离单位）
//   - samples: 采样点数（<2 时使用 DefaultRibbonSamples）
func BuildRibbon(curve *PathCurve, width float64, samples int) *RibbonGeometry {
	if samples < 2 {
		samples = DefaultRibbonSamples
	}
	half := width / 2

	g := &RibbonGeometry{
		Vertices: make([]RibbonVertex, 0, samples*2),
		Indices:  make([]uint16, 0, (samples-1)*6),
		Width:    width,
	}

	for i := 0; i < samples; i++ {
		f := float64(i) / float64(samples-1)
		center := curve.PointAt(f)
		normal := curve.TangentAt(f).Perp()

		g.Vertices = append(g.Vertices,
			RibbonVertex{Position: center.Add(normal.Scale(half)), Progress: f},
			RibbonVertex{Position: center.Sub(normal.Scale(half)), Progress: f},
		)
	}

	for i := 0; i < samples-1; i++ {
		l0 := uint16(i * 2)
		r0 := l0 + 1
		l1 := l0 + 2
		r1 := l0 + 3
		g.Indices = append(g.Indices, l0, r0, l1, r0, r1, l1)
	}

	return g
}
