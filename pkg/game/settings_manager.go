// Package game 提供与具体场景无关的应用级管理器
package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 查看器全局设置
// 不绑定到特定行程：下次启动沿用上次的查看偏好
type ViewerSettings struct {
	// NorthUp 罗盘默认模式：true = 北朝上
	NorthUp bool `yaml:"northUp"`

	// ShowPath 是否显示路径条带
	ShowPath bool `yaml:"showPath"`

	// LastPathID 上次选择的路径标识，为空则使用配置默认路径
	LastPathID string `yaml:"lastPathId"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		NorthUp:    true,
		ShowPath:   true,
		LastPathID: "",
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// gdataManager 为 nil 时进入降级模式：仅内存设置、不持久化。
// 加载失败不是致命错误，回落到默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或存档不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded ViewerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 降级模式下返回 nil，不报错
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetNorthUp 设置罗盘默认模式
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetNorthUp(northUp bool) {
	sm.settings.NorthUp = northUp
}

// SetShowPath 设置路径条带可见性偏好
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetShowPath(show bool) {
	sm.settings.ShowPath = show
}

// SetLastPathID 记录最近选择的路径
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetLastPathID(id string) {
	sm.settings.LastPathID = id
}
