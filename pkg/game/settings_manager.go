package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 播放速度和缩放的取值范围
const (
	MinPlaybackSpeed = 0.0
	MaxPlaybackSpeed = 4.0
	MinPreviewScale  = 1.0
	MaxPreviewScale  = 8.0
)

// PreviewSettings 动画预览器设置
type PreviewSettings struct {
	PlaybackSpeed float64 `yaml:"playbackSpeed"` // 播放速度倍率 0.0 ~ 4.0
	Scale         float64 `yaml:"scale"`         // 精灵绘制缩放 1.0 ~ 8.0
	Paused        bool    `yaml:"paused"`        // 是否暂停
	ShowGrid      bool    `yaml:"showGrid"`      // 是否绘制单元格边框
	Selected      string  `yaml:"selected"`      // 当前选中的动画名
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PreviewSettings {
	return &PreviewSettings{
		PlaybackSpeed: 1.0,
		Scale:         3.0,
		Paused:        false,
		ShowGrid:      false,
	}
}

// SettingsManager 设置管理器
// 负责预览器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager   // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PreviewSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "preview"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或设置从未保存过时使用默认设置；
// 读取的数值超出范围时被限制到合法范围内。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.PlaybackSpeed = clamp(loaded.PlaybackSpeed, MinPlaybackSpeed, MaxPlaybackSpeed)
	loaded.Scale = clamp(loaded.Scale, MinPreviewScale, MaxPreviewScale)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata，降级模式下直接返回 nil
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
func (sm *SettingsManager) GetSettings() *PreviewSettings {
	return sm.settings
}

// SetPlaybackSpeed 设置播放速度倍率（限制在 0.0 ~ 4.0）
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetPlaybackSpeed(speed float64) {
	sm.settings.PlaybackSpeed = clamp(speed, MinPlaybackSpeed, MaxPlaybackSpeed)
}

// SetScale 设置绘制缩放（限制在 1.0 ~ 8.0）
func (sm *SettingsManager) SetScale(scale float64) {
	sm.settings.Scale = clamp(scale, MinPreviewScale, MaxPreviewScale)
}

// SetPaused 设置暂停状态
func (sm *SettingsManager) SetPaused(paused bool) {
	sm.settings.Paused = paused
}

// SetShowGrid 设置是否绘制单元格边框
func (sm *SettingsManager) SetShowGrid(show bool) {
	sm.settings.ShowGrid = show
}

// SetSelected 设置当前选中的动画
func (sm *SettingsManager) SetSelected(name string) {
	sm.settings.Selected = name
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
