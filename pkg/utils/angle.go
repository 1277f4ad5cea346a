package utils

import "math"

// 角度工具函数
//
// 世界旋转与朝向均以弧度表示，绕 Y 轴（俯视平面的法线）。
// 角度插值必须走最短旋转路径，否则跨越 ±π 边界时会出现
// 可见的整圈回转。

// NormalizeAngle 将任意角度差规范化到 [-π, π] 区间
// 通过反复加减 2π 实现，保证插值走最短旋转路径
func NormalizeAngle(delta float64) float64 {
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	return delta
}

// LerpAngle 沿最短旋转路径从 current 向 target 插值
// factor 为每帧插值系数（0~1），返回新的角度值
func LerpAngle(current, target, factor float64) float64 {
	delta := NormalizeAngle(target - current)
	return current + delta*factor
}
