// Package config 提供行程可视化的类型化配置
//
// 所有配置项通过 YAML 加载进枚举好的强类型结构体并统一校验，
// 不做动态字段合并——非法配置在启动时报错，而不是运行期静默出错。
package config

import (
	"fmt"

	"github.com/decker502/shopwalk/pkg/journey"
	"github.com/decker502/shopwalk/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Point2 地板平面坐标的 YAML 映射
type Point2 struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// Point3 三维坐标的 YAML 映射（Y 为高度，缺省 0）
type Point3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// MotionConfig 行进与接近检测参数
type MotionConfig struct {
	BaseSpeed           float64 `yaml:"baseSpeed"`           // 距离单位/秒
	CornerRadius        float64 `yaml:"cornerRadius"`        // 拐角圆角半径
	ProximityThreshold  float64 `yaml:"proximityThreshold"`  // 图钉触发距离
	ProximityDebounceMs int     `yaml:"proximityDebounceMs"` // 去抖延迟（毫秒）
}

// CameraConfig 镜头参数
type CameraConfig struct {
	ZenithHeight      float64 `yaml:"zenithHeight"`      // 顶视高度
	IsoOffset         Point3  `yaml:"isoOffset"`         // 跟随模式等轴测偏移
	CompassLerpFactor float64 `yaml:"compassLerpFactor"` // 世界旋转平滑系数
	CameraLerpFactor  float64 `yaml:"cameraLerpFactor"`  // 镜头注视点平滑系数
	IntroHoldMs       int     `yaml:"introHoldMs"`       // 开场停留（毫秒）
	IntroMoveMs       int     `yaml:"introMoveMs"`       // 开场移动（毫秒）
}

// RibbonConfig 路径条带参数
type RibbonConfig struct {
	Width   float64 `yaml:"width"`   // 条带宽度
	Samples int     `yaml:"samples"` // 弧长均匀采样数
	DrawMs  int     `yaml:"drawMs"`  // 描画动画时长（毫秒）
}

// PathConfig 路径注册表中的一条命名路径
type PathConfig struct {
	ID        string   `yaml:"id"`
	Waypoints []Point2 `yaml:"waypoints"`
}

// PinConfig 图钉定义
type PinConfig struct {
	Label              string `yaml:"label"`
	Position           Point3 `yaml:"position"`
	Billboard          bool   `yaml:"billboard"`
	RevealTrigger      string `yaml:"revealTrigger"`      // 依赖图钉的标签（与延迟互斥）
	RevealAfterDelayMs int    `yaml:"revealAfterDelayMs"` // 固定延迟显露（毫秒）
}

// JourneyConfig 顶层配置
type JourneyConfig struct {
	Motion      MotionConfig `yaml:"motion"`
	Camera      CameraConfig `yaml:"camera"`
	Ribbon      RibbonConfig `yaml:"ribbon"`
	DefaultPath string       `yaml:"defaultPath"`
	Paths       []PathConfig `yaml:"paths"`
	Pins        []PinConfig  `yaml:"pins"`
}

// LoadJourneyConfig 从 YAML 数据解析并校验配置
func LoadJourneyConfig(data []byte) (*JourneyConfig, error) {
	var cfg JourneyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journey config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid journey config: %w", err)
	}
	return &cfg, nil
}

// Validate 校验配置的完整性
//
// 图钉显露链的无环性由核心在 Initialize 时校验，这里只做
// 结构层面的检查：路径存在且点数足够、默认路径已注册、标签唯一。
func (c *JourneyConfig) Validate() error {
	if c.Motion.BaseSpeed <= 0 {
		return fmt.Errorf("motion.baseSpeed must be positive, got %v", c.Motion.BaseSpeed)
	}
	if c.Motion.ProximityThreshold <= 0 {
		return fmt.Errorf("motion.proximityThreshold must be positive, got %v", c.Motion.ProximityThreshold)
	}
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}

	seen := make(map[string]bool, len(c.Paths))
	for i, p := range c.Paths {
		if p.ID == "" {
			return fmt.Errorf("paths[%d] has empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate path id %q", p.ID)
		}
		seen[p.ID] = true
		if len(p.Waypoints) < 2 {
			return fmt.Errorf("path %q needs at least 2 waypoints, got %d", p.ID, len(p.Waypoints))
		}
	}

	if c.DefaultPath == "" {
		c.DefaultPath = c.Paths[0].ID
	} else if !seen[c.DefaultPath] {
		return fmt.Errorf("defaultPath %q is not a registered path", c.DefaultPath)
	}

	labels := make(map[string]bool, len(c.Pins))
	for i, pin := range c.Pins {
		if pin.Label == "" {
			return fmt.Errorf("pins[%d] has empty label", i)
		}
		if labels[pin.Label] {
			return fmt.Errorf("duplicate pin label %q", pin.Label)
		}
		labels[pin.Label] = true
	}
	return nil
}

// FindPath 按标识查找路径的路径点序列
func (c *JourneyConfig) FindPath(id string) ([]utils.Vec2, error) {
	for _, p := range c.Paths {
		if p.ID == id {
			return toWaypoints(p.Waypoints), nil
		}
	}
	return nil, fmt.Errorf("unknown path %q", id)
}

// PathIDs 按声明顺序返回全部路径标识
func (c *JourneyConfig) PathIDs() []string {
	ids := make([]string, len(c.Paths))
	for i, p := range c.Paths {
		ids[i] = p.ID
	}
	return ids
}

// CoreConfig 转换为核心运行参数
func (c *JourneyConfig) CoreConfig() journey.Config {
	cfg := journey.DefaultConfig()
	cfg.BaseSpeed = c.Motion.BaseSpeed
	cfg.CornerRadius = c.Motion.CornerRadius
	cfg.ProximityThreshold = c.Motion.ProximityThreshold
	cfg.ProximityDebounce = msToSeconds(c.Motion.ProximityDebounceMs)

	if c.Camera.ZenithHeight > 0 {
		cfg.ZenithHeight = c.Camera.ZenithHeight
	}
	if off := c.Camera.IsoOffset; off != (Point3{}) {
		cfg.IsoOffset = utils.Vec3{X: off.X, Y: off.Y, Z: off.Z}
	}
	if c.Camera.CompassLerpFactor > 0 {
		cfg.CompassLerpFactor = c.Camera.CompassLerpFactor
	}
	if c.Camera.CameraLerpFactor > 0 {
		cfg.CameraLerpFactor = c.Camera.CameraLerpFactor
	}
	if c.Camera.IntroHoldMs > 0 {
		cfg.IntroHold = msToSeconds(c.Camera.IntroHoldMs)
	}
	if c.Camera.IntroMoveMs > 0 {
		cfg.IntroMove = msToSeconds(c.Camera.IntroMoveMs)
	}

	if c.Ribbon.Width > 0 {
		cfg.RibbonWidth = c.Ribbon.Width
	}
	if c.Ribbon.Samples > 1 {
		cfg.RibbonSamples = c.Ribbon.Samples
	}
	if c.Ribbon.DrawMs > 0 {
		cfg.PathDrawDuration = msToSeconds(c.Ribbon.DrawMs)
	}
	return cfg
}

// PinDefs 转换为核心的图钉定义
func (c *JourneyConfig) PinDefs() []journey.PinDef {
	defs := make([]journey.PinDef, len(c.Pins))
	for i, pin := range c.Pins {
		defs[i] = journey.PinDef{
			Label:         pin.Label,
			Position:      utils.Vec3{X: pin.Position.X, Y: pin.Position.Y, Z: pin.Position.Z},
			Billboard:     pin.Billboard,
			RevealTrigger: pin.RevealTrigger,
			RevealDelay:   msToSeconds(pin.RevealAfterDelayMs),
		}
	}
	return defs
}

// DefaultWaypoints 默认路径的路径点序列
func (c *JourneyConfig) DefaultWaypoints() []utils.Vec2 {
	wps, err := c.FindPath(c.DefaultPath)
	if err != nil {
		// Validate 已保证默认路径存在
		return nil
	}
	return wps
}

func toWaypoints(points []Point2) []utils.Vec2 {
	out := make([]utils.Vec2, len(points))
	for i, p := range points {
		out[i] = utils.Vec2{X: p.X, Z: p.Z}
	}
	return out
}

func msToSeconds(ms int) float64 {
	return float64(ms) / 1000.0
}
