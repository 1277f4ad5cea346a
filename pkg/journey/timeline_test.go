package journey

import (
	"math"
	"testing"

	"github.com/decker502/shopwalk/pkg/utils"
)

// TestProgressScheduleClamping 缓动时长钳制：任意路径长度下
// 2×缓动时长 ≤ 总时长，巡航段时长永不为负
func TestProgressScheduleClamping(t *testing.T) {
	tests := []struct {
		name      string
		length    float64
		baseSpeed float64
	}{
		{"极短路径", 0.1, 2.5},
		{"短路径", 1, 2.5},
		{"临界路径", 7.5, 2.5}, // total = 3s, 5% = 0.15s
		{"常规路径", 60, 2.5},
		{"长路径", 1000, 2.5},
		{"慢速", 10, 0.5},
		{"快速", 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newProgressSchedule(tt.length, tt.baseSpeed)
			total := tt.length / tt.baseSpeed

			var sum float64
			for _, p := range tl.phases {
				if p.Duration < 0 {
					t.Errorf("阶段 %q 时长为负: %v", p.Name, p.Duration)
				}
				sum += p.Duration
			}
			if math.Abs(sum-total) > 1e-9 {
				t.Errorf("阶段总时长 %v != 行程总时长 %v", sum, total)
			}

			ease := tl.phases[0].Duration
			if tl.phases[2].Duration != ease {
				t.Errorf("加速段 %v 与减速段 %v 不对称", ease, tl.phases[2].Duration)
			}
			if 2*ease > total+1e-9 {
				t.Errorf("2×缓动时长 %v 超过总时长 %v", 2*ease, total)
			}
			if ease > maxEaseDuration+1e-9 {
				t.Errorf("缓动时长 %v 超过上限 %v", ease, maxEaseDuration)
			}
		})
	}
}

// TestProgressScheduleCompletion 推进到结束：进度单调、终值精确为 1、
// 完成回调只触发一次
func TestProgressScheduleCompletion(t *testing.T) {
	tl := newProgressSchedule(60, 2.5) // 24 秒

	last := -1.0
	completions := 0
	tl.OnUpdate = func(v float64) {
		if v < last-1e-9 {
			t.Errorf("进度回退: %v → %v", last, v)
		}
		last = v
	}
	tl.OnComplete = func() { completions++ }

	const dt = 1.0 / 60.0
	for i := 0; i < 60*30 && !tl.Done(); i++ {
		tl.Advance(dt)
	}

	if !tl.Done() {
		t.Fatal("时间轴未在预期时间内完成")
	}
	if last != 1 {
		t.Errorf("最终进度 = %v, 期望精确为 1", last)
	}
	if completions != 1 {
		t.Errorf("完成回调触发 %d 次, 期望 1 次", completions)
	}

	// 完成后继续推进无副作用
	tl.Advance(dt)
	if completions != 1 {
		t.Error("完成后推进不应再次触发回调")
	}
}

// TestProgressScheduleCruiseSpeed 巡航段近似匀速
func TestProgressScheduleCruiseSpeed(t *testing.T) {
	tl := newProgressSchedule(250, 2.5) // 100 秒, 缓动 1.5 秒

	var progress float64
	tl.OnUpdate = func(v float64) { progress = v }

	const dt = 0.1
	// 跳过加速段
	for elapsed := 0.0; elapsed < 5.0; elapsed += dt {
		tl.Advance(dt)
	}

	prev := progress
	var deltas []float64
	for i := 0; i < 100; i++ {
		tl.Advance(dt)
		deltas = append(deltas, progress-prev)
		prev = progress
	}

	for i, d := range deltas[1:] {
		if math.Abs(d-deltas[0]) > 1e-9 {
			t.Fatalf("巡航段步 %d 进度增量 %v 与首增量 %v 不一致（应匀速）", i+1, d, deltas[0])
		}
	}
}

// TestTimelineKill 终止后不再推进、不触发完成回调
func TestTimelineKill(t *testing.T) {
	completed := false
	tl := NewTimeline([]TimelinePhase{
		{Name: "only", Duration: 1, Easing: utils.EaseLinear, From: 0, To: 1},
	})
	tl.OnComplete = func() { completed = true }

	tl.Advance(0.5)
	tl.Kill()
	tl.Advance(10)

	if !tl.Done() {
		t.Error("Kill 后 Done() 应为 true")
	}
	if completed {
		t.Error("Kill 不应触发 OnComplete")
	}
}

// TestTimelineNilSafety nil 时间轴的方法均为安全空操作
func TestTimelineNilSafety(t *testing.T) {
	var tl *Timeline
	if !tl.Done() {
		t.Error("nil 时间轴 Done() 应为 true")
	}
	tl.Kill()     // 不应 panic
	tl.Advance(1) // 不应 panic
}

// TestTimelineCrossPhases 一次大步长跨越多个阶段直接完成
func TestTimelineCrossPhases(t *testing.T) {
	var value float64
	completed := false
	tl := NewTimeline([]TimelinePhase{
		{Name: "a", Duration: 0.5, Easing: utils.EaseLinear, From: 0, To: 0.5},
		{Name: "b", Duration: 0.5, Easing: utils.EaseLinear, From: 0.5, To: 1},
	})
	tl.OnUpdate = func(v float64) { value = v }
	tl.OnComplete = func() { completed = true }

	tl.Advance(5)

	if !completed {
		t.Error("跨阶段大步长应直接完成")
	}
	if value != 1 {
		t.Errorf("完成时值 = %v, 期望钉在终值 1", value)
	}
}

// TestTimelineZeroDurationPhase 零时长阶段被立即跳过
func TestTimelineZeroDurationPhase(t *testing.T) {
	var value float64
	tl := NewTimeline([]TimelinePhase{
		{Name: "instant", Duration: 0, Easing: utils.EaseLinear, From: 0, To: 0.3},
		{Name: "rest", Duration: 1, Easing: utils.EaseLinear, From: 0.3, To: 1},
	})
	tl.OnUpdate = func(v float64) { value = v }

	tl.Advance(0.5)
	if math.Abs(value-0.65) > 1e-9 {
		t.Errorf("值 = %v, 期望 0.65（零时长阶段不占用时间）", value)
	}
}
