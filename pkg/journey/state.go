package journey

import "github.com/decker502/shopwalk/pkg/utils"

// Mode 镜头编排状态机的状态
type Mode int

const (
	// ModeZenith 顶视：正上方俯瞰全场，初始状态
	ModeZenith Mode = iota
	// ModeTransitioning 过渡中：仅出现在开场脚本过渡期间
	ModeTransitioning
	// ModeFollowing 跟随：镜头以平滑目标点跟踪顾客，播放期稳态
	ModeFollowing
)

// String 返回状态名（用于日志与状态快照）
func (m Mode) String() string {
	switch m {
	case ModeZenith:
		return "zenith"
	case ModeTransitioning:
		return "transitioning"
	case ModeFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// AnimatorState 行程动画的共享可变状态
//
// 唯一实例由 Animator 创建并持有，每帧按固定顺序被各更新器读写：
// 移动/朝向 → 罗盘 → 镜头 → 公告板 → 接近事件。单协程执行，
// 每个字段每帧只有一个写入方，不需要加锁。Reset 时恢复初始值。
type AnimatorState struct {
	// Progress 行程进度 ∈ [0, 1]，由进度时间轴异步驱动、移动更新器读取
	Progress float64

	// Mode 镜头状态机当前状态
	Mode Mode

	// CompassNorthUp 罗盘模式：true = 北朝上（世界固定），
	// false = 跟随朝向（世界旋转使顾客始终朝向屏幕上方）
	CompassNorthUp bool

	// CurrentHeading 顾客当前朝向（弧度），由切线方向计算
	CurrentHeading float64

	// WorldYaw 环境根节点当前旋转角（弧度）
	WorldYaw float64

	// TargetWorldYaw 期望的环境旋转角（弧度）
	TargetWorldYaw float64

	// CameraTarget 镜头注视点的平滑值（世界坐标）
	CameraTarget utils.Vec3

	// CameraOffset 镜头位置相对注视点的固定偏移
	CameraOffset utils.Vec3

	// PathVisible 路径条带是否可见
	PathVisible bool

	// PathDraw 路径条带的描画进度 ∈ [0, 1]（显示动画用）
	PathDraw float64
}

// StateSnapshot GetState 返回的状态快照（只读副本）
type StateSnapshot struct {
	Progress       float64
	Mode           Mode
	CompassNorthUp bool
	CurrentHeading float64
	WorldYaw       float64
	TargetWorldYaw float64
	CameraTarget   utils.Vec3
	CameraOffset   utils.Vec3
	PathVisible    bool
	PathDraw       float64
	Paused         bool
}

// Transform 场景对象的变换句柄
// 由渲染层提供，核心每帧写入、渲染层消费
type Transform struct {
	Position  utils.Vec3
	RotationY float64 // 绕 Y 轴旋转（弧度）
	Scale     float64
}

// Camera 镜头句柄
// 核心负责写 Position/Target，Up 保持固定的上向量以避免滚转
type Camera struct {
	Position utils.Vec3
	Target   utils.Vec3
	Up       utils.Vec3
}

// LookAt 设置注视点并锁定上向量
func (c *Camera) LookAt(target utils.Vec3) {
	c.Target = target
	c.Up = utils.Vec3{X: 0, Y: 1, Z: 0}
}

// Config 行程动画核心的运行参数
// 所有字段在 Initialize 时一次性给定并校验，运行期不再变更
type Config struct {
	// BaseSpeed 行程基准速度（距离单位/秒）
	BaseSpeed float64

	// CornerRadius 路径拐角的期望圆角半径
	CornerRadius float64

	// RibbonWidth 路径条带宽度
	RibbonWidth float64

	// RibbonSamples 路径条带采样数
	RibbonSamples int

	// ProximityThreshold 图钉触发距离（地板平面，距离单位）
	ProximityThreshold float64

	// ProximityDebounce 图钉完成前的去抖延迟（秒）
	ProximityDebounce float64

	// CompassLerpFactor 世界旋转每帧插值系数（多秒级平滑窗口）
	CompassLerpFactor float64

	// CameraLerpFactor 镜头注视点每帧插值系数
	// 比罗盘平滑收敛更快：镜头滞后必须保持灵敏
	CameraLerpFactor float64

	// ZenithHeight 顶视镜头高度
	ZenithHeight float64

	// IsoOffset 跟随模式下镜头相对顾客的等轴测偏移
	IsoOffset utils.Vec3

	// IntroHold 开场过渡前的停留时长（秒）
	IntroHold float64

	// IntroMove 开场过渡的缓动移动时长（秒）
	IntroMove float64

	// PathDrawDuration 路径条带描画动画时长（秒）
	PathDrawDuration float64
}

// headingFreezeProgress 进度接近终点时切线方向数值不稳定，
// 超过该阈值后朝向保持冻结，避免 NaN/跳变传播到罗盘和镜头
const headingFreezeProgress = 0.995

// DefaultConfig 返回默认运行参数
func DefaultConfig() Config {
	return Config{
		BaseSpeed:          BaseSpeed,
		CornerRadius:       2.0,
		RibbonWidth:        1.2,
		RibbonSamples:      DefaultRibbonSamples,
		ProximityThreshold: 7.0,
		ProximityDebounce:  0.8,
		CompassLerpFactor:  0.027,
		CameraLerpFactor:   0.05,
		ZenithHeight:       60.0,
		IsoOffset:          utils.Vec3{X: 12, Y: 16, Z: 12},
		IntroHold:          0.5,
		IntroMove:          2.5,
		PathDrawDuration:   1.2,
	}
}
