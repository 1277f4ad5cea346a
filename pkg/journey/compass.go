package journey

import (
	"math"

	"github.com/decker502/shopwalk/pkg/utils"
)

// 罗盘/世界旋转控制器
//
// 旋转施加在整个静态环境的根节点上，而不是镜头上：
// 镜头偏移在顾客局部坐标系里保持不变，世界在镜头下方转动。

// updateCompass 计算目标世界旋转角并向其平滑推进
//
// 北朝上模式下目标角恒为 0（世界固定，地图式）；
// 跟随模式下目标角 = -当前朝向 + π，使顾客在屏幕上始终朝向上方。
// 角度差先规范化到 [-π, π] 再乘以插值系数，保证永远走最短旋转路径，
// 跨越 ±π 边界时不会出现可见的整圈回转。
func updateCompass(state *AnimatorState, env *Transform, lerpFactor float64) {
	if state.CompassNorthUp {
		state.TargetWorldYaw = 0
	} else {
		state.TargetWorldYaw = -state.CurrentHeading + math.Pi
	}

	state.WorldYaw = utils.LerpAngle(state.WorldYaw, state.TargetWorldYaw, lerpFactor)
	env.RotationY = state.WorldYaw
}
