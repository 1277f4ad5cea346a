// Package scenes 提供行程可视化的演示场景
//
// 场景是核心的外围协作方：提供顾客/环境/镜头句柄，消费核心每帧
// 写入的变换与状态，把俯视画面画到屏幕上。核心的所有语义
//（曲线、进度、旋转、事件）都在 pkg/journey 内，这里只做投影和描绘。
package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/shopwalk/pkg/journey"
	"github.com/decker502/shopwalk/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 屏幕逻辑尺寸
const (
	ScreenWidth  = 960
	ScreenHeight = 640
)

// referenceViewHeight 镜头高度与缩放换算的基准：
// scale(px/距离单位) = referenceViewHeight / 镜头离注视点的高度
const referenceViewHeight = 550.0

// whiteImage 三角形批量绘制的单色源图（ebiten 常用写法）
var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}()

// JourneyScene 俯视演示场景
type JourneyScene struct {
	animator *journey.Animator

	// 核心写入、场景消费的句柄
	agent  *journey.Transform
	env    *journey.Transform
	camera *journey.Camera

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewJourneyScene 创建场景并把句柄绑定到核心
func NewJourneyScene(animator *journey.Animator) *JourneyScene {
	s := &JourneyScene{
		animator: animator,
		agent:    &journey.Transform{Scale: 1},
		env:      &journey.Transform{Scale: 1},
		camera:   &journey.Camera{Up: utils.Vec3{Y: 1}},
	}
	animator.AttachScene(s.agent, s.env, s.camera)
	return s
}

// Update 每帧推进核心
func (s *JourneyScene) Update(dt float64) {
	s.animator.Tick(dt)
}

// toScreen 把地板局部坐标投影到屏幕
// 先施加环境根节点旋转得到世界坐标，再以镜头注视点为中心缩放平移
func (s *JourneyScene) toScreen(local utils.Vec2) (float32, float32) {
	world := local.RotateY(s.env.RotationY)
	center := s.camera.Target.Floor()
	scale := s.viewScale()
	x := ScreenWidth/2 + (world.X-center.X)*scale
	y := ScreenHeight/2 + (world.Z-center.Z)*scale
	return float32(x), float32(y)
}

// viewScale 由镜头离注视点的高度推出像素缩放，过渡期间自然缩放
func (s *JourneyScene) viewScale() float64 {
	h := s.camera.Position.Y - s.camera.Target.Y
	if h < 4 {
		h = 4
	}
	return referenceViewHeight / h
}

// Draw 绘制一帧
func (s *JourneyScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 28, B: 34, A: 255})

	state := s.animator.GetState()
	if state.PathVisible {
		s.drawRibbon(screen, state)
	}
	s.drawPins(screen)
	s.drawAgent(screen, state)
	s.drawHUD(screen, state)
}

// drawRibbon 绘制路径条带
//
// 消费采样器的逐顶点进度属性：顶点进度 < 当前行程进度的部分
// 被擦除（顾客身后），> 描画值的部分尚未显露（显示动画）。
func (s *JourneyScene) drawRibbon(screen *ebiten.Image, state journey.StateSnapshot) {
	ribbon := s.animator.Ribbon()
	if ribbon == nil {
		return
	}

	s.vertices = s.vertices[:0]
	for _, v := range ribbon.Vertices {
		x, y := s.toScreen(v.Position)
		alpha := float32(0.85)
		switch {
		case v.Progress <= state.Progress: // 走过即擦除
			alpha = 0
		case v.Progress > state.PathDraw: // 尚未描画到
			alpha = 0
		}
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: 0.35, ColorG: 0.72, ColorB: 1.0, ColorA: alpha,
		})
	}

	if len(s.indices) != len(ribbon.Indices) {
		s.indices = append(s.indices[:0], ribbon.Indices...)
	}
	screen.DrawTriangles(s.vertices, s.indices, whiteImage, nil)
}

// drawPins 绘制图钉：状态着色，公告板画朝向刻线
func (s *JourneyScene) drawPins(screen *ebiten.Image) {
	for _, pin := range s.animator.Pins().All() {
		if pin.State == journey.PinHidden {
			continue
		}

		x, y := s.toScreen(pin.Transform.Position.Floor())
		r := float32(0.9 * s.viewScale() * pin.Transform.Scale)
		if r <= 0 {
			continue
		}

		clr := color.RGBA{R: 255, G: 170, B: 40, A: 255}
		if pin.State == journey.PinDone {
			clr = color.RGBA{R: 110, G: 116, B: 125, A: 255}
		}
		vector.DrawFilledCircle(screen, x, y, r, clr, true)

		if pin.Billboard {
			// 公告板朝向：局部朝向 + 环境旋转 = 世界朝向，应始终指向镜头
			yaw := pin.Transform.RotationY + s.env.RotationY
			dx := float32(math.Sin(yaw)) * r * 1.6
			dy := float32(math.Cos(yaw)) * r * 1.6
			vector.StrokeLine(screen, x, y, x+dx, y+dy, 2, color.RGBA{R: 235, G: 235, B: 235, A: 255}, true)
		}
	}
}

// drawAgent 绘制顾客：沿朝向的三角箭头
func (s *JourneyScene) drawAgent(screen *ebiten.Image, state journey.StateSnapshot) {
	pos := s.agent.Position.Floor()

	// 局部朝向向量；toScreen 里的环境旋转会把它转到世界方向
	dir := utils.Vec2{X: math.Sin(state.CurrentHeading), Z: math.Cos(state.CurrentHeading)}
	side := dir.Perp()

	// 箭头尺寸以距离单位表示，屏幕大小随镜头缩放
	tip := pos.Add(dir.Scale(1.1))
	left := pos.Sub(dir.Scale(0.55)).Add(side.Scale(0.55))
	right := pos.Sub(dir.Scale(0.55)).Sub(side.Scale(0.55))

	tx, ty := s.toScreen(tip)
	lx, ly := s.toScreen(left)
	rx, ry := s.toScreen(right)

	vs := []ebiten.Vertex{
		{DstX: tx, DstY: ty, SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 0.95, ColorB: 0.3, ColorA: 1},
		{DstX: lx, DstY: ly, SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 0.95, ColorB: 0.3, ColorA: 1},
		{DstX: rx, DstY: ry, SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 0.95, ColorB: 0.3, ColorA: 1},
	}
	screen.DrawTriangles(vs, []uint16{0, 1, 2}, whiteImage, nil)
}

// drawHUD 叠加状态信息与按键提示
func (s *JourneyScene) drawHUD(screen *ebiten.Image, state journey.StateSnapshot) {
	compass := "follow"
	if state.CompassNorthUp {
		compass = "north-up"
	}
	paused := ""
	if state.Paused {
		paused = "  [PAUSED]"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("progress %.3f  mode %s  compass %s%s", state.Progress, state.Mode, compass, paused),
		8, 8)
	ebitenutil.DebugPrintAt(screen,
		"Space:start  C:compass  P:pause  R:reset  V:path  Tab:switch",
		8, ScreenHeight-20)
}
