package utils

import "math"

// 向量类型
//
// Vec2 表示地板平面坐标 (X, Z)：俯视视角下 X 向右、Z 向下（朝向屏幕外）。
// Vec3 在此基础上增加高度分量 Y。
// 两者都是值类型，所有运算返回新值，不修改接收者。

// Vec2 地板平面二维向量
type Vec2 struct {
	X float64
	Z float64
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Z - o.Z}
}

// Scale 标量缩放
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Z * s}
}

// Length 向量长度
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Z)
}

// Normalize 返回单位向量；零向量返回零值
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// Distance 两点间欧氏距离
func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Length()
}

// Perp 返回逆时针旋转 90° 的垂直向量
// 用于路径条带（Ribbon）沿切线法向的顶点偏移
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Z, v.X}
}

// Lerp 两点间线性插值
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{Lerp(v.X, o.X, t), Lerp(v.Z, o.Z, t)}
}

// RotateY 绕原点（Y 轴）旋转 angle 弧度
// 用于把局部地板坐标变换到世界坐标（环境根节点旋转）
func (v Vec2) RotateY(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos + v.Z*sin,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Vec3 三维向量（Y 为高度）
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 标量缩放
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance 两点间欧氏距离
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Lerp 两点间线性插值
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		Lerp(v.X, o.X, t),
		Lerp(v.Y, o.Y, t),
		Lerp(v.Z, o.Z, t),
	}
}

// Floor 取地板平面分量 (X, Z)
func (v Vec3) Floor() Vec2 {
	return Vec2{v.X, v.Z}
}

// FromFloor 由地板平面坐标和高度构造 Vec3
func FromFloor(p Vec2, y float64) Vec3 {
	return Vec3{p.X, y, p.Z}
}
