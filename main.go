package main

import (
	"flag"
	"log"

	"github.com/decker502/shopwalk/pkg/app"
	"github.com/decker502/shopwalk/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	pathID := flag.String("path", "", "启动路径标识（为空则从存档或配置默认值加载）")
	flag.Parse()

	configData, err := assetsFS.ReadFile("assets/config/journey.yaml")
	if err != nil {
		log.Fatalf("嵌入配置读取失败: %v", err)
	}

	a, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigData: configData,
		PathID:     *pathID,
	})
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
	ebiten.SetWindowTitle("卖场行程可视化 - Shopwalk")

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
