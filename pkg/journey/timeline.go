package journey

import (
	"math"

	"github.com/decker502/shopwalk/pkg/utils"
)

// BaseSpeed 行程基准速度（距离单位/秒）
// 进度时间轴总时长 = 路径长度 / BaseSpeed，路径越长走得越久
const BaseSpeed = 2.5

// maxEaseDuration 起步/收尾缓动阶段的时长上限（秒）
const maxEaseDuration = 1.5

// easeFraction 缓动阶段占总时长的比例上限
const easeFraction = 0.05

// TimelinePhase 时间轴的一个命名阶段
// 在 Duration 秒内把标量从 From 缓动到 To
type TimelinePhase struct {
	Name     string
	Duration float64
	Easing   func(float64) float64
	From     float64
	To       float64
}

// Timeline 多阶段标量时间轴
//
// 由外部每帧调用 Advance(dt) 推进，阶段按顺序执行，
// 每步通过 OnUpdate 汇报当前值，全部完成后触发一次 OnComplete。
// 不依赖第三方补间引擎的内部时钟，进度完全可检视、可测试。
// 同一用途同一时刻至多一个活动实例：启动新实例前必须 Kill 旧实例。
type Timeline struct {
	phases     []TimelinePhase
	index      int
	elapsed    float64
	done       bool
	OnUpdate   func(value float64)
	OnComplete func()
}

// NewTimeline 创建时间轴；phases 为空时视为立即完成
func NewTimeline(phases []TimelinePhase) *Timeline {
	return &Timeline{phases: phases}
}

// Done 时间轴是否已结束（完成或被终止）
func (tl *Timeline) Done() bool {
	return tl == nil || tl.done
}

// Kill 立即终止时间轴，不触发 OnComplete
// 用于"启动新时间轴前取消旧实例"，避免双驱动
func (tl *Timeline) Kill() {
	if tl != nil {
		tl.done = true
	}
}

// Value 当前阶段的插值结果；时间轴结束后返回最后阶段的终值
func (tl *Timeline) Value() float64 {
	if len(tl.phases) == 0 {
		return 0
	}
	if tl.done || tl.index >= len(tl.phases) {
		return tl.phases[len(tl.phases)-1].To
	}
	p := tl.phases[tl.index]
	if p.Duration <= 0 {
		return p.To
	}
	t := utils.Clamp01(tl.elapsed / p.Duration)
	return utils.Lerp(p.From, p.To, p.Easing(t))
}

// Advance 推进 dt 秒
// 单次调用可以跨越多个阶段，剩余时间会结转到下一阶段；
// 结束时先把值钉在终值上再触发 OnComplete
func (tl *Timeline) Advance(dt float64) {
	if tl == nil || tl.done || dt < 0 {
		return
	}

	tl.elapsed += dt
	for tl.index < len(tl.phases) {
		p := tl.phases[tl.index]
		if tl.elapsed < p.Duration {
			break
		}
		tl.elapsed -= p.Duration
		tl.index++
	}

	if tl.index >= len(tl.phases) {
		tl.done = true
		if tl.OnUpdate != nil && len(tl.phases) > 0 {
			tl.OnUpdate(tl.phases[len(tl.phases)-1].To)
		}
		if tl.OnComplete != nil {
			tl.OnComplete()
		}
		return
	}

	if tl.OnUpdate != nil {
		tl.OnUpdate(tl.Value())
	}
}

// newProgressSchedule 构建行程进度时间轴（0 → 1）
//
// 三阶段：起步加速（二次缓入，从静止起步）、匀速巡航、收尾减速
// （二次缓出，到 1 时恰好停止）。各阶段覆盖的进度份额按速度连续性
// 求解，保证加速段末速度 = 巡航速度 = 减速段初速度，中段读起来
// 是真正的匀速运动。
//
// 缓动时长 = min(1.5s, 总时长的 5%)；路径极短导致
// 2×缓动时长 > 总时长时，把缓动压缩到总时长的一半，
// 巡航段时长永远不为负。
func newProgressSchedule(pathLength, baseSpeed float64) *Timeline {
	total := pathLength / baseSpeed
	ease := math.Min(maxEaseDuration, easeFraction*total)
	if 2*ease > total {
		ease = total / 2
	}
	cruise := total - 2*ease

	// 巡航速度 v 满足 v·ease + v·cruise = 1（加减速段各贡献 v·ease/2）
	v := 1.0 / (total - ease)
	accelShare := v * ease / 2

	return NewTimeline([]TimelinePhase{
		{Name: "accel", Duration: ease, Easing: utils.EaseInQuad, From: 0, To: accelShare},
		{Name: "cruise", Duration: cruise, Easing: utils.EaseLinear, From: accelShare, To: 1 - accelShare},
		{Name: "decel", Duration: ease, Easing: utils.EaseOutQuad, From: 1 - accelShare, To: 1},
	})
}
