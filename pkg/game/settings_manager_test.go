package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// newTestGdata 在临时 HOME 下打开 gdata 存储
func newTestGdata(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_chunksim_settings",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if !settings.ShowGrid {
		t.Error("ShowGrid: got false, want true")
	}
	if !settings.ShowFPS {
		t.Error("ShowFPS: got false, want true")
	}
	if settings.ShowLinks {
		t.Error("ShowLinks: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil")
	}

	// 降级模式下切换仍然生效，只是不持久化
	if sm.ToggleGrid() {
		t.Error("ToggleGrid() should turn grid off")
	}
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail: %v", err)
	}
}

// TestSettingsToggle 测试各开关的切换
func TestSettingsToggle(t *testing.T) {
	tests := []struct {
		name   string
		toggle func(sm *SettingsManager) bool
		get    func(s *DisplaySettings) bool
	}{
		{
			name:   "grid",
			toggle: (*SettingsManager).ToggleGrid,
			get:    func(s *DisplaySettings) bool { return s.ShowGrid },
		},
		{
			name:   "fps",
			toggle: (*SettingsManager).ToggleFPS,
			get:    func(s *DisplaySettings) bool { return s.ShowFPS },
		},
		{
			name:   "links",
			toggle: (*SettingsManager).ToggleLinks,
			get:    func(s *DisplaySettings) bool { return s.ShowLinks },
		},
		{
			name:   "sound",
			toggle: (*SettingsManager).ToggleSound,
			get:    func(s *DisplaySettings) bool { return s.SoundEnabled },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSettingsManager(nil)
			before := tt.get(sm.GetSettings())

			got := tt.toggle(sm)
			if got == before {
				t.Errorf("toggle returned %v, want %v", got, !before)
			}
			if tt.get(sm.GetSettings()) != got {
				t.Error("toggle result does not match stored setting")
			}

			if tt.toggle(sm) != before {
				t.Error("second toggle should restore the original value")
			}
		})
	}
}

// TestSettingsPersistence 测试切换后的设置能被新的管理器读回
func TestSettingsPersistence(t *testing.T) {
	gdataManager := newTestGdata(t)

	sm := NewSettingsManager(gdataManager)
	sm.ToggleLinks()
	sm.ToggleFPS()

	reloaded := NewSettingsManager(gdataManager)
	settings := reloaded.GetSettings()
	if !settings.ShowLinks {
		t.Error("ShowLinks should persist as true")
	}
	if settings.ShowFPS {
		t.Error("ShowFPS should persist as false")
	}
	if !settings.ShowGrid {
		t.Error("ShowGrid should keep its default")
	}
}

// TestSettingsLoadCorrupted 测试损坏的存档回退到默认值
func TestSettingsLoadCorrupted(t *testing.T) {
	gdataManager := newTestGdata(t)

	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("showGrid: [")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
	if err := sm.Load(); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
	if *sm.GetSettings() != *DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", *sm.GetSettings())
	}
}
