package config

import (
	"strings"
	"testing"
)

const validYAML = `
motion:
  baseSpeed: 2.5
  cornerRadius: 2.0
  proximityThreshold: 7.0
  proximityDebounceMs: 800
camera:
  zenithHeight: 60
  isoOffset: {x: 12, y: 16, z: 12}
  compassLerpFactor: 0.027
  cameraLerpFactor: 0.05
  introHoldMs: 500
  introMoveMs: 2500
ribbon:
  width: 1.2
  samples: 600
  drawMs: 1200
defaultPath: grocery-run
paths:
  - id: grocery-run
    waypoints:
      - {x: 0, z: 0}
      - {x: 0, z: 18}
      - {x: 14, z: 18}
  - id: express-lane
    waypoints:
      - {x: 0, z: 0}
      - {x: 10, z: 0}
pins:
  - label: entrance
    position: {x: 0, z: 0}
    billboard: true
  - label: produce
    position: {x: 0, y: 1.5, z: 18}
    revealAfterDelayMs: 1000
  - label: dairy
    position: {x: 14, z: 18}
    revealTrigger: produce
`

// TestLoadJourneyConfig 测试合法配置的解析
func TestLoadJourneyConfig(t *testing.T) {
	cfg, err := LoadJourneyConfig([]byte(validYAML))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Motion.BaseSpeed != 2.5 {
		t.Errorf("baseSpeed = %v, 期望 2.5", cfg.Motion.BaseSpeed)
	}
	if cfg.DefaultPath != "grocery-run" {
		t.Errorf("defaultPath = %q, 期望 grocery-run", cfg.DefaultPath)
	}
	if len(cfg.Paths) != 2 || len(cfg.Pins) != 3 {
		t.Errorf("路径数 %d / 图钉数 %d, 期望 2 / 3", len(cfg.Paths), len(cfg.Pins))
	}
	if !cfg.Pins[0].Billboard {
		t.Error("entrance 应为公告板")
	}
	if cfg.Pins[2].RevealTrigger != "produce" {
		t.Errorf("dairy 的显露触发 = %q, 期望 produce", cfg.Pins[2].RevealTrigger)
	}
}

// TestValidateErrors 测试结构校验拒绝的非法配置
func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"速度非正",
			func(s string) string { return strings.Replace(s, "baseSpeed: 2.5", "baseSpeed: 0", 1) },
			"baseSpeed",
		},
		{
			"触发距离非正",
			func(s string) string {
				return strings.Replace(s, "proximityThreshold: 7.0", "proximityThreshold: -1", 1)
			},
			"proximityThreshold",
		},
		{
			"默认路径未注册",
			func(s string) string {
				return strings.Replace(s, "defaultPath: grocery-run", "defaultPath: ghost", 1)
			},
			"not a registered path",
		},
		{
			"重复路径标识",
			func(s string) string { return strings.Replace(s, "id: express-lane", "id: grocery-run", 1) },
			"duplicate path id",
		},
		{
			"路径点不足",
			func(s string) string {
				return strings.Replace(s, "      - {x: 10, z: 0}\n", "", 1)
			},
			"at least 2 waypoints",
		},
		{
			"重复图钉标签",
			func(s string) string { return strings.Replace(s, "label: dairy", "label: entrance", 1) },
			"duplicate pin label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJourneyConfig([]byte(tt.mutate(validYAML)))
			if err == nil {
				t.Fatal("期望返回错误, 实际成功")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("错误信息 %q 未包含 %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestDefaultPathFallback defaultPath 缺省时取第一条路径
func TestDefaultPathFallback(t *testing.T) {
	yaml := strings.Replace(validYAML, "defaultPath: grocery-run\n", "", 1)
	cfg, err := LoadJourneyConfig([]byte(yaml))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.DefaultPath != "grocery-run" {
		t.Errorf("缺省默认路径 = %q, 期望第一条路径 grocery-run", cfg.DefaultPath)
	}
}

// TestFindPath 路径查找与未知标识
func TestFindPath(t *testing.T) {
	cfg, err := LoadJourneyConfig([]byte(validYAML))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	wps, err := cfg.FindPath("express-lane")
	if err != nil {
		t.Fatalf("查找路径失败: %v", err)
	}
	if len(wps) != 2 || wps[1].X != 10 {
		t.Errorf("路径点 = %v, 期望 [(0,0) (10,0)]", wps)
	}

	if _, err := cfg.FindPath("ghost"); err == nil {
		t.Error("未知路径标识应返回错误")
	}

	ids := cfg.PathIDs()
	if len(ids) != 2 || ids[0] != "grocery-run" || ids[1] != "express-lane" {
		t.Errorf("路径标识 = %v, 期望按声明顺序", ids)
	}
}

// TestCoreConfig 毫秒字段转换为秒、零值回落到默认
func TestCoreConfig(t *testing.T) {
	cfg, err := LoadJourneyConfig([]byte(validYAML))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	core := cfg.CoreConfig()
	if core.ProximityDebounce != 0.8 {
		t.Errorf("去抖延迟 = %v 秒, 期望 0.8", core.ProximityDebounce)
	}
	if core.IntroHold != 0.5 || core.IntroMove != 2.5 {
		t.Errorf("开场时长 = %v/%v 秒, 期望 0.5/2.5", core.IntroHold, core.IntroMove)
	}
	if core.PathDrawDuration != 1.2 {
		t.Errorf("描画时长 = %v 秒, 期望 1.2", core.PathDrawDuration)
	}
	if core.IsoOffset.Y != 16 {
		t.Errorf("等轴测偏移 Y = %v, 期望 16", core.IsoOffset.Y)
	}

	// 未提供的镜头参数回落到核心默认值
	minimal := `
motion:
  baseSpeed: 1.0
  proximityThreshold: 5.0
paths:
  - id: only
    waypoints:
      - {x: 0, z: 0}
      - {x: 1, z: 0}
`
	mcfg, err := LoadJourneyConfig([]byte(minimal))
	if err != nil {
		t.Fatalf("加载最小配置失败: %v", err)
	}
	mcore := mcfg.CoreConfig()
	if mcore.ZenithHeight != 60 {
		t.Errorf("缺省顶视高度 = %v, 期望 60", mcore.ZenithHeight)
	}
	if mcore.CompassLerpFactor != 0.027 {
		t.Errorf("缺省罗盘平滑系数 = %v, 期望 0.027", mcore.CompassLerpFactor)
	}
	if mcore.BaseSpeed != 1.0 {
		t.Errorf("速度 = %v, 期望覆写为 1.0", mcore.BaseSpeed)
	}
}

// TestPinDefs 图钉定义转换
func TestPinDefs(t *testing.T) {
	cfg, err := LoadJourneyConfig([]byte(validYAML))
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	defs := cfg.PinDefs()
	if len(defs) != 3 {
		t.Fatalf("图钉定义数 = %d, 期望 3", len(defs))
	}
	if defs[1].RevealDelay != 1.0 {
		t.Errorf("produce 显露延迟 = %v 秒, 期望 1.0", defs[1].RevealDelay)
	}
	if defs[1].Position.Y != 1.5 {
		t.Errorf("produce 高度 = %v, 期望 1.5", defs[1].Position.Y)
	}
	if defs[2].RevealTrigger != "produce" {
		t.Errorf("dairy 显露触发 = %q, 期望 produce", defs[2].RevealTrigger)
	}
}
