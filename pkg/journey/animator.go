package journey

import (
	"fmt"
	"log"

	"github.com/decker502/shopwalk/pkg/utils"
)

// Animator 行程动画核心的对外门面
//
// 持有唯一的 AnimatorState 实例和全部子更新器，外部每帧调用一次
// Tick(dt)，内部按固定顺序执行：定时器/时间轴推进 → 移动/朝向 →
// 罗盘 → 镜头 → 公告板 → 接近事件。所有操作在依赖缺失时记录警告
// 并空操作，不抛出致命错误。
type Animator struct {
	cfg   Config
	state *AnimatorState

	scheduler *Scheduler
	cameras   *CameraOrchestrator
	pins      *PinRegistry

	curve  *PathCurve
	ribbon *RibbonGeometry

	// 场景协作方提供的句柄
	agent  *Transform
	env    *Transform
	camera *Camera

	progressTimeline *Timeline
	pathDrawTimeline *Timeline

	paused      bool
	initialized bool

	// OnJourneyComplete 行程进度到达 1 时触发一次
	OnJourneyComplete func()
}

// SwitchFn 路径切换函数：由路径注册表协作方提供，
// 根据路径标识返回新曲线；未知标识返回错误
type SwitchFn func(id string) (*PathCurve, error)

// NewAnimator 创建行程动画核心
func NewAnimator(cfg Config) *Animator {
	state := &AnimatorState{}
	a := &Animator{
		cfg:       cfg,
		state:     state,
		scheduler: NewScheduler(),
	}
	a.cameras = NewCameraOrchestrator(state, &a.cfg)
	return a
}

// Initialize 校验配置、构建路径曲线/条带/图钉注册表并复位状态
//
// 图钉显露链在此处校验（标签唯一、触发存在、无环），
// 配置错误直接返回，不进入运行态。
func (a *Animator) Initialize(waypoints []utils.Vec2, pins []PinDef) error {
	if err := a.validateConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	curve, err := BuildCurve(waypoints, a.cfg.CornerRadius)
	if err != nil {
		return fmt.Errorf("build curve: %w", err)
	}

	registry, err := NewPinRegistry(pins, a.scheduler, a.cfg.ProximityThreshold, a.cfg.ProximityDebounce)
	if err != nil {
		return fmt.Errorf("build pin registry: %w", err)
	}

	a.curve = curve
	a.ribbon = BuildRibbon(curve, a.cfg.RibbonWidth, a.cfg.RibbonSamples)
	a.pins = registry
	a.initialized = true

	a.resetState()
	a.pins.ScheduleDelayedReveals()

	log.Printf("[Animator] initialized: path length %.2f, %d pins", curve.Length(), len(pins))
	return nil
}

func (a *Animator) validateConfig() error {
	switch {
	case a.cfg.BaseSpeed <= 0:
		return fmt.Errorf("base speed must be positive, got %v", a.cfg.BaseSpeed)
	case a.cfg.ProximityThreshold <= 0:
		return fmt.Errorf("proximity threshold must be positive, got %v", a.cfg.ProximityThreshold)
	case a.cfg.ProximityDebounce < 0:
		return fmt.Errorf("proximity debounce must not be negative, got %v", a.cfg.ProximityDebounce)
	case a.cfg.CompassLerpFactor <= 0 || a.cfg.CompassLerpFactor > 1:
		return fmt.Errorf("compass lerp factor must be in (0, 1], got %v", a.cfg.CompassLerpFactor)
	case a.cfg.CameraLerpFactor <= 0 || a.cfg.CameraLerpFactor > 1:
		return fmt.Errorf("camera lerp factor must be in (0, 1], got %v", a.cfg.CameraLerpFactor)
	}
	return nil
}

// AttachScene 绑定渲染层提供的句柄：顾客变换、环境根变换、镜头
// 绑定后立即进入顶视初始框定
func (a *Animator) AttachScene(agent, env *Transform, camera *Camera) {
	a.agent = agent
	a.env = env
	a.camera = camera
	a.cameras.Attach(camera, a.agentWorldPosition)
	a.cameras.EnterZenith()
	if a.curve != nil && a.agent != nil {
		updateMotion(a.state, a.curve, a.agent)
	}
}

// agentWorldPosition 顾客经环境旋转后的世界坐标
func (a *Animator) agentWorldPosition() utils.Vec3 {
	if a.agent == nil {
		return utils.Vec3{}
	}
	floor := a.agent.Position.Floor().RotateY(a.state.WorldYaw)
	return utils.FromFloor(floor, a.agent.Position.Y)
}

// Tick 每帧推进 dt 秒
//
// 暂停时定时器与时间轴（进度、开场过渡、描画）不再推进，
// 但镜头/罗盘的帧间平滑继续运行，让画面自然收定。
func (a *Animator) Tick(dt float64) {
	if !a.initialized {
		return
	}

	gated := dt
	if a.paused {
		gated = 0
	}

	a.scheduler.Advance(gated)
	if !a.progressTimeline.Done() {
		a.progressTimeline.Advance(gated)
	}
	if !a.pathDrawTimeline.Done() {
		a.pathDrawTimeline.Advance(gated)
	}

	if a.agent != nil {
		updateMotion(a.state, a.curve, a.agent)
	}
	if a.env != nil {
		updateCompass(a.state, a.env, a.cfg.CompassLerpFactor)
	}
	a.cameras.Update(gated)
	compensateBillboards(a.pins.All(), a.camera, a.env)
	if a.agent != nil && !a.paused {
		a.pins.Update(a.agent.Position.Floor(), dt)
	}
}

// StartFullSequence 从顶视起完整播放：开场过渡完成后自动开始行程
func (a *Animator) StartFullSequence() {
	a.PlayIntro(func() {
		a.PlayJourney()
	})
}

// PlayIntro 播放开场镜头过渡；完成时回调 onComplete
func (a *Animator) PlayIntro(onComplete func()) {
	if !a.initialized {
		log.Printf("[Animator] PlayIntro skipped: not initialized")
		return
	}
	a.cameras.PlayIntroTransition(onComplete)
}

// PlayJourney 启动进度时间轴（0 → 1）
// 已有活动实例时先取消，不允许双驱动
func (a *Animator) PlayJourney() {
	if !a.initialized {
		log.Printf("[Animator] PlayJourney skipped: not initialized")
		return
	}

	a.progressTimeline.Kill()
	a.pins.ScheduleDelayedReveals()

	tl := newProgressSchedule(a.curve.Length(), a.cfg.BaseSpeed)
	tl.OnUpdate = func(v float64) {
		a.state.Progress = utils.Clamp01(v)
	}
	tl.OnComplete = func() {
		log.Printf("[Animator] journey complete")
		if a.OnJourneyComplete != nil {
			a.OnJourneyComplete()
		}
	}
	a.progressTimeline = tl
	log.Printf("[Animator] journey started: duration %.2fs", a.curve.Length()/a.cfg.BaseSpeed)
}

// Pause 暂停播放（时间轴与定时器冻结）
func (a *Animator) Pause() {
	a.paused = true
}

// Resume 恢复播放
func (a *Animator) Resume() {
	a.paused = false
}

// Reset 复位整个行程，随时可调用且幂等
//
// 依次：杀掉全部时间轴 → 清空全部挂起定时器 → 图钉恢复初始状态 →
// 状态字段恢复初始值 → 镜头回到顶视。
func (a *Animator) Reset() {
	if !a.initialized {
		return
	}

	a.progressTimeline.Kill()
	a.progressTimeline = nil
	a.pathDrawTimeline.Kill()
	a.pathDrawTimeline = nil
	a.scheduler.CancelAll()
	a.pins.Reset()
	a.resetState()
	a.cameras.Reset()

	if a.agent != nil {
		updateMotion(a.state, a.curve, a.agent)
	}
	if a.env != nil {
		a.env.RotationY = 0
	}
	log.Printf("[Animator] reset")
}

// resetState 恢复共享状态的初始值
func (a *Animator) resetState() {
	a.paused = false
	a.state.Progress = 0
	a.state.CompassNorthUp = true
	a.state.CurrentHeading = 0
	a.state.WorldYaw = 0
	a.state.TargetWorldYaw = 0
	a.state.PathVisible = true
	a.state.PathDraw = 1
}

// SetProgress 直接设置进度（0~1），用于外部拖动
// 会取消活动的进度时间轴，避免下一帧被其覆盖
func (a *Animator) SetProgress(f float64) {
	a.progressTimeline.Kill()
	a.state.Progress = utils.Clamp01(f)
}

// GetState 返回当前状态快照
func (a *Animator) GetState() StateSnapshot {
	return StateSnapshot{
		Progress:       a.state.Progress,
		Mode:           a.state.Mode,
		CompassNorthUp: a.state.CompassNorthUp,
		CurrentHeading: a.state.CurrentHeading,
		WorldYaw:       a.state.WorldYaw,
		TargetWorldYaw: a.state.TargetWorldYaw,
		CameraTarget:   a.state.CameraTarget,
		CameraOffset:   a.state.CameraOffset,
		PathVisible:    a.state.PathVisible,
		PathDraw:       a.state.PathDraw,
		Paused:         a.paused,
	}
}

// SetCompassMode 设置罗盘模式：true = 北朝上，false = 跟随朝向
func (a *Animator) SetCompassMode(northUp bool) {
	a.state.CompassNorthUp = northUp
}

// SetPathVisible 设置路径条带可见性
// 显示时播放描画动画（条带从起点渐次画出），隐藏立即生效
func (a *Animator) SetPathVisible(visible bool) {
	a.state.PathVisible = visible
	a.pathDrawTimeline.Kill()

	if !visible {
		a.pathDrawTimeline = nil
		return
	}

	a.state.PathDraw = 0
	tl := NewTimeline([]TimelinePhase{
		{Name: "draw", Duration: a.cfg.PathDrawDuration, Easing: utils.EaseOutCubic, From: 0, To: 1},
	})
	tl.OnUpdate = func(v float64) { a.state.PathDraw = v }
	a.pathDrawTimeline = tl
}

// SwitchPath 切换到路径注册表中的另一条路径
//
// switchFn 由协作方提供；未知标识返回错误时保留当前路径。
// 切换成功后整体替换曲线与条带，进度/位置/描画值复位。
func (a *Animator) SwitchPath(id string, switchFn SwitchFn) {
	if !a.initialized {
		log.Printf("[Animator] SwitchPath skipped: not initialized")
		return
	}
	if switchFn == nil {
		log.Printf("[Animator] SwitchPath skipped: no switch function")
		return
	}

	curve, err := switchFn(id)
	if err != nil {
		log.Printf("[Animator] SwitchPath %q failed: %v (keeping current path)", id, err)
		return
	}

	a.progressTimeline.Kill()
	a.progressTimeline = nil
	a.curve = curve
	a.ribbon = BuildRibbon(curve, a.cfg.RibbonWidth, a.cfg.RibbonSamples)
	a.state.Progress = 0
	a.state.PathDraw = 1

	if a.agent != nil {
		updateMotion(a.state, a.curve, a.agent)
	}
	log.Printf("[Animator] switched to path %q: length %.2f", id, curve.Length())
}

// Curve 当前路径曲线（未初始化时为 nil）
func (a *Animator) Curve() *PathCurve {
	return a.curve
}

// Ribbon 当前路径条带几何（未初始化时为 nil）
func (a *Animator) Ribbon() *RibbonGeometry {
	return a.ribbon
}

// Pins 图钉注册表（未初始化时为 nil）
func (a *Animator) Pins() *PinRegistry {
	return a.pins
}

// Scheduler 定时器队列（供测试检查挂起回调）
func (a *Animator) Scheduler() *Scheduler {
	return a.scheduler
}
