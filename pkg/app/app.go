// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：解析配置、创建行程动画核心、
// 绑定演示场景、处理键盘输入，并实现 ebiten.Game 接口驱动每帧 Tick。
package app

import (
	"fmt"
	"io"
	"log"

	"github.com/decker502/shopwalk/pkg/config"
	"github.com/decker502/shopwalk/pkg/game"
	"github.com/decker502/shopwalk/pkg/journey"
	"github.com/decker502/shopwalk/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// tickDuration ebiten 固定步长（60 TPS）
const tickDuration = 1.0 / 60.0

// Config 应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigData 行程配置 YAML（通常来自嵌入资源）
	ConfigData []byte
	// PathID 覆盖启动路径（为空则用存档或配置默认值）
	PathID string
}

// App 应用核心包装器，实现 ebiten.Game 接口
type App struct {
	scene      *scenes.JourneyScene
	animator   *journey.Animator
	journeyCfg *config.JourneyConfig
	settings   *game.SettingsManager

	pathIDs   []string
	pathIndex int
}

// NewApp 创建并初始化应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	journeyCfg, err := config.LoadJourneyConfig(cfg.ConfigData)
	if err != nil {
		return nil, fmt.Errorf("行程配置加载失败: %w", err)
	}
	log.Printf("[Config] loaded %d paths, %d pins", len(journeyCfg.Paths), len(journeyCfg.Pins))

	// gdata 跨平台存储；打开失败进入降级模式（仅内存设置）
	gdataManager, err := gdata.Open(gdata.Config{AppName: "shopwalk"})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager)

	// 启动路径优先级：命令行参数 > 存档记录 > 配置默认
	pathID := cfg.PathID
	if pathID == "" {
		if saved := settings.GetSettings().LastPathID; saved != "" {
			if _, err := journeyCfg.FindPath(saved); err == nil {
				pathID = saved
				log.Printf("[App] Loading last path from settings: %s", saved)
			}
		}
	}
	if pathID == "" {
		pathID = journeyCfg.DefaultPath
	}
	waypoints, err := journeyCfg.FindPath(pathID)
	if err != nil {
		return nil, fmt.Errorf("启动路径无效: %w", err)
	}

	animator := journey.NewAnimator(journeyCfg.CoreConfig())
	if err := animator.Initialize(waypoints, journeyCfg.PinDefs()); err != nil {
		return nil, fmt.Errorf("行程核心初始化失败: %w", err)
	}
	animator.SetCompassMode(settings.GetSettings().NorthUp)
	animator.SetPathVisible(settings.GetSettings().ShowPath)

	a := &App{
		scene:      scenes.NewJourneyScene(animator),
		animator:   animator,
		journeyCfg: journeyCfg,
		settings:   settings,
		pathIDs:    journeyCfg.PathIDs(),
	}
	for i, id := range a.pathIDs {
		if id == pathID {
			a.pathIndex = i
		}
	}

	log.Printf("[App] Starting path: %s", pathID)
	return a, nil
}

// Update 每帧逻辑：输入处理 + 核心推进
func (a *App) Update() error {
	a.handleInput()
	a.scene.Update(tickDuration)
	return nil
}

// handleInput 键盘绑定
//
//	Space = 从顶视开始完整播放   C = 罗盘模式切换
//	P = 暂停/恢复               R = 复位
//	V = 路径条带显隐            Tab = 切换路径
func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if a.animator.GetState().Mode == journey.ModeZenith {
			a.animator.StartFullSequence()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		northUp := !a.animator.GetState().CompassNorthUp
		a.animator.SetCompassMode(northUp)
		a.settings.SetNorthUp(northUp)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if a.animator.GetState().Paused {
			a.animator.Resume()
		} else {
			a.animator.Pause()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.animator.Reset()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		visible := !a.animator.GetState().PathVisible
		a.animator.SetPathVisible(visible)
		a.settings.SetShowPath(visible)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.switchToNextPath()
	}
}

// switchToNextPath 循环切换到路径注册表中的下一条路径
func (a *App) switchToNextPath() {
	if len(a.pathIDs) < 2 {
		return
	}
	next := (a.pathIndex + 1) % len(a.pathIDs)
	id := a.pathIDs[next]

	a.animator.SwitchPath(id, func(id string) (*journey.PathCurve, error) {
		waypoints, err := a.journeyCfg.FindPath(id)
		if err != nil {
			return nil, err
		}
		return journey.BuildCurve(waypoints, a.journeyCfg.CoreConfig().CornerRadius)
	})

	a.pathIndex = next
	a.settings.SetLastPathID(id)
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 渲染一帧
func (a *App) Draw(screen *ebiten.Image) {
	a.scene.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}
