package utils

import (
	"math"
	"testing"
)

// TestVec2RotateY 测试地板平面旋转
func TestVec2RotateY(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		angle    float64
		expected Vec2
	}{
		{"零角不变", Vec2{1, 2}, 0, Vec2{1, 2}},
		{"四分之一圈", Vec2{0, 1}, math.Pi / 2, Vec2{1, 0}},
		{"半圈", Vec2{1, 0}, math.Pi, Vec2{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.RotateY(tt.angle)
			if math.Abs(got.X-tt.expected.X) > 1e-9 || math.Abs(got.Z-tt.expected.Z) > 1e-9 {
				t.Errorf("(%v).RotateY(%v) = %v, 期望 %v", tt.v, tt.angle, got, tt.expected)
			}
		})
	}

	// 旋转保长
	t.Run("长度不变", func(t *testing.T) {
		v := Vec2{3, 4}
		for a := 0.0; a < 2*math.Pi; a += 0.3 {
			if math.Abs(v.RotateY(a).Length()-5) > 1e-9 {
				t.Errorf("旋转 %v 后长度变化", a)
			}
		}
	})
}

// TestVec2Perp 测试垂直向量与点积正交性
func TestVec2Perp(t *testing.T) {
	vs := []Vec2{{1, 0}, {0, 1}, {3, -4}, {-2, -7}}
	for _, v := range vs {
		p := v.Perp()
		dot := v.X*p.X + v.Z*p.Z
		if math.Abs(dot) > 1e-9 {
			t.Errorf("(%v).Perp() = %v 与原向量不正交（点积 %v）", v, p, dot)
		}
		if math.Abs(p.Length()-v.Length()) > 1e-9 {
			t.Errorf("(%v).Perp() 改变了长度", v)
		}
	}
}

// TestVec2Normalize 测试单位化的零向量安全性
func TestVec2Normalize(t *testing.T) {
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("零向量单位化应返回零向量, 得到 %v", got)
	}
	if got := (Vec2{3, 4}).Normalize(); math.Abs(got.Length()-1) > 1e-9 {
		t.Errorf("单位化后长度 %v, 期望 1", got.Length())
	}
}

// TestVec3FloorRoundTrip 测试三维与地板平面的互转
func TestVec3FloorRoundTrip(t *testing.T) {
	v := Vec3{X: 1.5, Y: 7, Z: -2.5}
	floor := v.Floor()
	back := FromFloor(floor, v.Y)
	if back != v {
		t.Errorf("Floor/FromFloor 往返不一致: %v → %v", v, back)
	}
}
