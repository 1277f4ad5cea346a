package journey

import (
	"math"

	"github.com/decker502/shopwalk/pkg/utils"
)

// 移动与朝向更新器
//
// 每帧读取共享进度值，通过曲线的弧长查询得到顾客位置与朝向。
// 进度由进度时间轴独立驱动，这里只读不写。

// updateMotion 把进度映射为顾客的位置与朝向
//
// 位置取曲线上弧长占比 Progress 处的点（Y 固定在地面）。
// 朝向 = atan2(切线.X, 切线.Z)，仅在进度低于冻结阈值时更新——
// 接近终点处切线数值不稳定，冻结朝向比传播坏方向更安全。
func updateMotion(state *AnimatorState, curve *PathCurve, agent *Transform) {
	pos := curve.PointAt(state.Progress)
	agent.Position = utils.FromFloor(pos, 0)

	if state.Progress < headingFreezeProgress {
		tangent := curve.TangentAt(state.Progress)
		state.CurrentHeading = math.Atan2(tangent.X, tangent.Z)
	}
	agent.RotationY = state.CurrentHeading
}
