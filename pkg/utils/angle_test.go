package utils

import (
	"math"
	"testing"
)

// TestNormalizeAngle 测试角度差规范化到 [-π, π]
func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"零", 0, 0},
		{"正小角", 1, 1},
		{"负小角", -1, -1},
		{"超过π", math.Pi + 0.5, -math.Pi + 0.5},
		{"低于负π", -math.Pi - 0.5, math.Pi - 0.5},
		{"整圈", 2 * math.Pi, 0},
		{"负整圈", -2 * math.Pi, 0},
		{"多圈", 5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAngle(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("NormalizeAngle(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	// 任意输入的结果必须落在 [-π, π]
	t.Run("结果范围", func(t *testing.T) {
		for a := -20.0; a <= 20.0; a += 0.37 {
			r := NormalizeAngle(a)
			if r < -math.Pi-1e-9 || r > math.Pi+1e-9 {
				t.Errorf("NormalizeAngle(%v) = %v 超出 [-π, π]", a, r)
			}
		}
	})
}

// TestLerpAngle 测试最短旋转路径插值
func TestLerpAngle(t *testing.T) {
	t.Run("不跨边界", func(t *testing.T) {
		got := LerpAngle(0, 1, 0.5)
		if math.Abs(got-0.5) > 1e-9 {
			t.Errorf("LerpAngle(0, 1, 0.5) = %v, 期望 0.5", got)
		}
	})

	t.Run("跨越正负π边界走短路", func(t *testing.T) {
		// 从 3.0 到 -3.0：短路是经过 π（差 +0.283），不是倒转近一整圈
		got := LerpAngle(3.0, -3.0, 1.0)
		want := 3.0 + (2*math.Pi - 6.0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("LerpAngle(3, -3, 1) = %v, 期望 %v（经过 π 的短路）", got, want)
		}
	})

	t.Run("单步不超过π", func(t *testing.T) {
		for cur := -6.0; cur <= 6.0; cur += 0.61 {
			for tgt := -6.0; tgt <= 6.0; tgt += 0.73 {
				got := LerpAngle(cur, tgt, 1.0)
				if math.Abs(got-cur) > math.Pi+1e-9 {
					t.Errorf("LerpAngle(%v, %v, 1) 单步移动 %v 超过 π", cur, tgt, math.Abs(got-cur))
				}
			}
		}
	})
}
