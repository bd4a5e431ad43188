package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// DisplaySettings 调试叠加层的显示设置
// 这些开关在运行时通过按键切换，并在切换后持久化
type DisplaySettings struct {
	ShowGrid     bool    `yaml:"showGrid"`     // 绘制格子边框与主智能体所在格
	ShowFPS      bool    `yaml:"showFPS"`      // 绘制 FPS/TPS 与统计信息
	ShowLinks    bool    `yaml:"showLinks"`    // 绘制主智能体与同格智能体之间的连线
	Fullscreen   bool    `yaml:"fullscreen"`   // 启动时是否全屏
	SoundEnabled bool    `yaml:"soundEnabled"` // 主智能体换格时是否播放提示音
	SoundVolume  float64 `yaml:"soundVolume"`  // 提示音音量（0.0 - 1.0）
}

// DefaultSettings 返回默认设置
func DefaultSettings() *DisplaySettings {
	return &DisplaySettings{
		ShowGrid:     true,
		ShowFPS:      true,
		ShowLinks:    false,
		Fullscreen:   false,
		SoundEnabled: true,
		SoundVolume:  0.5,
	}
}

// SettingsManager 设置管理器
// 负责显示设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager   // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *DisplaySettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "display"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
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

	// 缺失的字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded: grid=%v fps=%v links=%v",
		loaded.ShowGrid, loaded.ShowFPS, loaded.ShowLinks)
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
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

	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *DisplaySettings {
	return sm.settings
}

// ToggleGrid 切换格子显示并持久化，返回新状态
func (sm *SettingsManager) ToggleGrid() bool {
	sm.settings.ShowGrid = !sm.settings.ShowGrid
	sm.saveQuietly()
	return sm.settings.ShowGrid
}

// ToggleFPS 切换统计信息显示并持久化，返回新状态
func (sm *SettingsManager) ToggleFPS() bool {
	sm.settings.ShowFPS = !sm.settings.ShowFPS
	sm.saveQuietly()
	return sm.settings.ShowFPS
}

// ToggleLinks 切换同格连线显示并持久化，返回新状态
func (sm *SettingsManager) ToggleLinks() bool {
	sm.settings.ShowLinks = !sm.settings.ShowLinks
	sm.saveQuietly()
	return sm.settings.ShowLinks
}

// ToggleSound 切换提示音并持久化，返回新状态
func (sm *SettingsManager) ToggleSound() bool {
	sm.settings.SoundEnabled = !sm.settings.SoundEnabled
	sm.saveQuietly()
	return sm.settings.SoundEnabled
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// saveQuietly 保存失败只记录日志，不影响运行
func (sm *SettingsManager) saveQuietly() {
	if err := sm.Save(); err != nil {
		log.Printf("[SettingsManager] Warning: %v", err)
	}
}
