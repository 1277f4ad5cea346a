package journey

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/shopwalk/pkg/utils"
)

// PinState 兴趣点（图钉）的状态
type PinState int

const (
	// PinHidden 未显露：等待延迟或显露链触发
	PinHidden PinState = iota
	// PinVisible 可见：参与接近检测
	PinVisible
	// PinDone 已完成：终态，直到显式 Reset
	PinDone
)

// String 返回状态名
func (s PinState) String() string {
	switch s {
	case PinHidden:
		return "hidden"
	case PinVisible:
		return "visible"
	case PinDone:
		return "done"
	default:
		return "unknown"
	}
}

// PinDef 图钉的配置定义
type PinDef struct {
	// Label 唯一标识
	Label string
	// Position 图钉位置（地板坐标 + 高度）
	Position utils.Vec3
	// Billboard 是否为公告板（每帧做朝向补偿）
	Billboard bool
	// RevealTrigger 显露链触发：该标签的图钉完成后本图钉显露
	RevealTrigger string
	// RevealDelay 固定延迟显露（秒，>0 时启用，与 RevealTrigger 互斥）
	RevealDelay float64
}

// Pin 运行期的图钉实例
//
// 状态迁移不变量：Hidden→Visible 至多一次（延迟或显露链），
// Visible→Done 至多一次（接近触发），Done 为终态直到 Reset。
type Pin struct {
	Label          string
	Position       utils.Vec3
	Billboard      bool
	RevealTrigger  string
	RevealDelay    float64
	State          PinState
	OverlayOpacity float64
	Transform      *Transform

	// pendingTimer 去抖定时器句柄；非零表示已有定时器在等待
	pendingTimer TimerHandle

	// affordance 弹跳/弹入动效时间轴，作用于 Transform.Scale
	affordance *Timeline
}

// initialState Hidden 还是 Visible 取决于是否配置了显露条件
func (p *Pin) initialState() PinState {
	if p.RevealTrigger != "" || p.RevealDelay > 0 {
		return PinHidden
	}
	return PinVisible
}

// PinRegistry 接近事件引擎
//
// 持有按标签索引的图钉集合，每帧对可见图钉做地板平面距离检测，
// 距离进入阈值后经去抖定时器把图钉置为完成，并触发显露链。
// 距离在旋转前的地板坐标系里度量：顾客和图钉同为环境根节点的
// 子对象，相对平面距离在世界旋转下不变。
type PinRegistry struct {
	pins      map[string]*Pin
	order     []string // 确定性遍历顺序（按标签）
	scheduler *Scheduler
	threshold float64
	debounce  float64

	delayRevealsArmed bool
}

// NewPinRegistry 根据定义构建图钉注册表
//
// 初始化时校验配置：标签唯一、显露触发指向已知标签、
// 显露链无环（有环属配置错误，直接拒绝而不是运行期静默死循环）。
func NewPinRegistry(defs []PinDef, scheduler *Scheduler, threshold, debounce float64) (*PinRegistry, error) {
	r := &PinRegistry{
		pins:      make(map[string]*Pin, len(defs)),
		order:     make([]string, 0, len(defs)),
		scheduler: scheduler,
		threshold: threshold,
		debounce:  debounce,
	}

	for _, def := range defs {
		if def.Label == "" {
			return nil, fmt.Errorf("pin with empty label")
		}
		if _, dup := r.pins[def.Label]; dup {
			return nil, fmt.Errorf("duplicate pin label %q", def.Label)
		}
		if def.RevealTrigger != "" && def.RevealDelay > 0 {
			return nil, fmt.Errorf("pin %q has both reveal trigger and reveal delay", def.Label)
		}
		pin := &Pin{
			Label:         def.Label,
			Position:      def.Position,
			Billboard:     def.Billboard,
			RevealTrigger: def.RevealTrigger,
			RevealDelay:   def.RevealDelay,
			Transform:     &Transform{Position: def.Position, Scale: 1},
		}
		pin.State = pin.initialState()
		pin.OverlayOpacity = 1
		r.pins[def.Label] = pin
		r.order = append(r.order, def.Label)
	}
	sort.Strings(r.order)

	if err := r.validateRevealGraph(); err != nil {
		return nil, err
	}
	return r, nil
}

// validateRevealGraph 校验显露链：触发标签存在且无环
// 每个图钉至多一条出边（指向其触发者），沿链走色标记即可
func (r *PinRegistry) validateRevealGraph() error {
	const (
		white = 0 // 未访问
		gray  = 1 // 本次链上
		black = 2 // 已确认无环
	)
	color := make(map[string]int, len(r.pins))

	for _, label := range r.order {
		if color[label] != white {
			continue
		}
		cur := label
		var chain []string
		for cur != "" {
			if color[cur] == gray {
				return fmt.Errorf("reveal chain contains a cycle through pin %q", cur)
			}
			if color[cur] == black {
				break
			}
			color[cur] = gray
			chain = append(chain, cur)

			next := r.pins[cur].RevealTrigger
			if next == "" {
				break
			}
			if _, ok := r.pins[next]; !ok {
				return fmt.Errorf("pin %q reveal trigger %q does not exist", cur, next)
			}
			cur = next
		}
		for _, l := range chain {
			color[l] = black
		}
	}
	return nil
}

// Get 按标签查找图钉
func (r *PinRegistry) Get(label string) (*Pin, bool) {
	p, ok := r.pins[label]
	return p, ok
}

// All 按标签序返回全部图钉
func (r *PinRegistry) All() []*Pin {
	out := make([]*Pin, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.pins[label])
	}
	return out
}

// ScheduleDelayedReveals 为配置了固定延迟的图钉安排一次性显露
// 幂等：本轮行程内已安排过则跳过（Reset 后重新武装）
func (r *PinRegistry) ScheduleDelayedReveals() {
	if r.delayRevealsArmed {
		return
	}
	r.delayRevealsArmed = true

	for _, label := range r.order {
		pin := r.pins[label]
		if pin.RevealDelay > 0 && pin.State == PinHidden {
			p := pin
			r.scheduler.Schedule(p.RevealDelay, func() {
				r.reveal(p)
			})
		}
	}
}

// Update 每帧接近检测与动效推进
//
// 仅对可见图钉检测：地板平面距离 ≤ 阈值且没有去抖定时器在等待时，
// 安排一次去抖回调。同一图钉定时器未触发前再次进入阈值不会重复调度。
func (r *PinRegistry) Update(agentFloor utils.Vec2, dt float64) {
	for _, label := range r.order {
		pin := r.pins[label]

		if !pin.affordance.Done() {
			pin.affordance.Advance(dt)
		}

		if pin.State != PinVisible {
			continue
		}
		if pin.pendingTimer != 0 && r.scheduler.Pending(pin.pendingTimer) {
			continue
		}

		if agentFloor.Distance(pin.Position.Floor()) <= r.threshold {
			p := pin
			p.pendingTimer = r.scheduler.Schedule(r.debounce, func() {
				r.complete(p)
			})
		}
	}
}

// complete 去抖到期：图钉置为完成并触发显露链
func (r *PinRegistry) complete(pin *Pin) {
	if pin.State == PinDone {
		return
	}
	log.Printf("[Pins] pin %q done", pin.Label)

	pin.State = PinDone
	pin.pendingTimer = 0
	pin.OverlayOpacity = 0
	r.playBounce(pin)

	// 显露链：所有以该标签为触发的隐藏图钉显露
	for _, label := range r.order {
		dep := r.pins[label]
		if dep.State == PinHidden && dep.RevealTrigger == pin.Label {
			r.reveal(dep)
		}
	}
}

// reveal Hidden → Visible，播放弹入动效
func (r *PinRegistry) reveal(pin *Pin) {
	if pin.State != PinHidden {
		return
	}
	log.Printf("[Pins] pin %q revealed", pin.Label)
	pin.State = PinVisible
	r.playSpringIn(pin)
}

// playBounce 完成时的短促弹跳
func (r *PinRegistry) playBounce(pin *Pin) {
	pin.affordance.Kill()
	tl := NewTimeline([]TimelinePhase{
		{Name: "up", Duration: 0.12, Easing: utils.EaseOutQuad, From: 1, To: 1.3},
		{Name: "down", Duration: 0.25, Easing: utils.EaseOutQuad, From: 1.3, To: 1},
	})
	tl.OnUpdate = func(v float64) { pin.Transform.Scale = v }
	pin.affordance = tl
}

// playSpringIn 显露时从零弹入
func (r *PinRegistry) playSpringIn(pin *Pin) {
	pin.affordance.Kill()
	pin.Transform.Scale = 0
	tl := NewTimeline([]TimelinePhase{
		{Name: "spring", Duration: 0.5, Easing: utils.EaseOutBack, From: 0, To: 1},
	})
	tl.OnUpdate = func(v float64) { pin.Transform.Scale = v }
	pin.affordance = tl
}

// Reset 取消本注册表挂起的定时器，恢复所有图钉到初始状态
// 幂等；定时器的整体清空由 Animator 统一调用 Scheduler.CancelAll
func (r *PinRegistry) Reset() {
	for _, label := range r.order {
		pin := r.pins[label]
		if pin.pendingTimer != 0 {
			r.scheduler.Cancel(pin.pendingTimer)
			pin.pendingTimer = 0
		}
		pin.affordance.Kill()
		pin.affordance = nil
		pin.State = pin.initialState()
		pin.OverlayOpacity = 1
		pin.Transform.Position = pin.Position
		pin.Transform.RotationY = 0
		pin.Transform.Scale = 1
	}
	r.delayRevealsArmed = false
}
