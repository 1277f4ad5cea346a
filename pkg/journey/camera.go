package journey

import (
	"log"
	"math"

	"github.com/decker502/shopwalk/pkg/utils"
)

// CameraOrchestrator 镜头编排器
//
// 状态机：Zenith（顶视）→ Transitioning（仅开场脚本期间）→ Following（跟随）。
// 初始状态为 Zenith，播放期稳态为 Following。持有镜头句柄与开场过渡
// 时间轴；任何入口在依赖（镜头/顾客位置）缺失时只记录警告并空操作，
// 绝不中断进程——系统可能在场景完全初始化之前被调用。
type CameraOrchestrator struct {
	state  *AnimatorState
	cfg    *Config
	camera *Camera

	// agentWorld 返回顾客经世界旋转后的世界坐标
	// 由 Animator 注入；nil 表示场景尚未就绪
	agentWorld func() utils.Vec3

	introTimeline   *Timeline
	followingMarker bool
}

// NewCameraOrchestrator 创建镜头编排器
func NewCameraOrchestrator(state *AnimatorState, cfg *Config) *CameraOrchestrator {
	return &CameraOrchestrator{state: state, cfg: cfg}
}

// Attach 绑定镜头句柄和顾客世界坐标查询
func (co *CameraOrchestrator) Attach(camera *Camera, agentWorld func() utils.Vec3) {
	co.camera = camera
	co.agentWorld = agentWorld
}

// EnterZenith 进入顶视状态
//
// 镜头置于场地正上方、北朝上俯瞰（上向量指向 -Z），
// 清除跟随标记并把镜头偏移恢复为顶视值。
func (co *CameraOrchestrator) EnterZenith() {
	co.introTimeline.Kill()
	co.followingMarker = false
	co.state.Mode = ModeZenith
	co.state.CameraOffset = utils.Vec3{Y: co.cfg.ZenithHeight}
	co.state.CameraTarget = utils.Vec3{}

	if co.camera == nil {
		log.Printf("[Camera] EnterZenith: no camera attached, framing deferred")
		return
	}
	co.camera.Position = utils.Vec3{Y: co.cfg.ZenithHeight}
	co.camera.Target = utils.Vec3{}
	// 正俯视时上向量不能取 +Y，用 -Z 使"北"朝向屏幕上方
	co.camera.Up = utils.Vec3{Z: -1}
}

// PlayIntroTransition 播放开场过渡：顶视 → 等轴测跟随
//
// 固定脚本：0.5 秒停留 + 2.5 秒缓动移动。移动期间每步重新采样
// 顾客的当前世界坐标作为插值终点——过渡与世界旋转同时进行，
// 只锁定起始采样会收敛到错误位置。过渡开始即切换罗盘为跟随模式，
// 让世界旋转平滑与镜头过渡同步推进。完成时提交跟随标记、设置
// 稳态等轴测偏移，并把位置/注视点精确钉到顾客当前位置，无缝交接。
func (co *CameraOrchestrator) PlayIntroTransition(onComplete func()) {
	if co.camera == nil || co.agentWorld == nil {
		log.Printf("[Camera] PlayIntroTransition skipped: scene not ready")
		return
	}

	co.introTimeline.Kill()
	co.state.Mode = ModeTransitioning
	co.state.CompassNorthUp = false

	startPos := co.camera.Position
	startTarget := co.camera.Target

	tl := NewTimeline([]TimelinePhase{
		{Name: "hold", Duration: co.cfg.IntroHold, Easing: utils.EaseLinear, From: 0, To: 0},
		{Name: "move", Duration: co.cfg.IntroMove, Easing: utils.EaseInOutCubic, From: 0, To: 1},
	})
	tl.OnUpdate = func(v float64) {
		agent := co.agentWorld()
		co.camera.Position = startPos.Lerp(agent.Add(co.cfg.IsoOffset), v)
		co.camera.LookAt(startTarget.Lerp(agent, v))
	}
	tl.OnComplete = func() {
		agent := co.agentWorld()
		co.followingMarker = true
		co.state.Mode = ModeFollowing
		co.state.CameraOffset = co.cfg.IsoOffset
		co.state.CameraTarget = agent
		co.camera.Position = agent.Add(co.cfg.IsoOffset)
		co.camera.LookAt(agent)
		if onComplete != nil {
			onComplete()
		}
	}
	co.introTimeline = tl
}

// Update 每帧推进：过渡时间轴与跟随平滑
func (co *CameraOrchestrator) Update(dt float64) {
	if co.camera == nil {
		return
	}

	if !co.introTimeline.Done() {
		co.introTimeline.Advance(dt)
	}

	if co.state.Mode != ModeFollowing || !co.followingMarker || co.agentWorld == nil {
		return
	}

	// 跟随：注视点向顾客世界坐标插值，镜头位置 = 注视点 + 固定偏移
	agent := co.agentWorld()
	co.state.CameraTarget = co.state.CameraTarget.Lerp(agent, co.cfg.CameraLerpFactor)
	co.camera.Position = co.state.CameraTarget.Add(co.state.CameraOffset)
	co.camera.LookAt(co.state.CameraTarget)
}

// Following 跟随交接是否已提交
func (co *CameraOrchestrator) Following() bool {
	return co.followingMarker
}

// Reset 杀掉过渡时间轴并回到顶视
func (co *CameraOrchestrator) Reset() {
	co.introTimeline.Kill()
	co.introTimeline = nil
	co.EnterZenith()
}

// compensateBillboards 公告板朝向补偿
//
// 公告板图钉是环境根节点的子对象：父节点旋转之后还要与镜头朝向
// 对齐，因此局部朝向 = 镜头世界偏航角 − 环境旋转角（父旋转的逆
// 与镜头朝向的复合）。忽略父旋转的朴素"面向镜头"在世界旋转进行中
// （跟随模式）会得到明显错误的朝向。
func compensateBillboards(pins []*Pin, camera *Camera, env *Transform) {
	if camera == nil || env == nil {
		return
	}

	dir := camera.Position.Sub(camera.Target)
	cameraYaw := math.Atan2(dir.X, dir.Z)
	local := utils.NormalizeAngle(cameraYaw - env.RotationY)

	for _, pin := range pins {
		if pin.Billboard {
			pin.Transform.RotationY = local
		}
	}
}
