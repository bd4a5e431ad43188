// Package app 提供模拟应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，main.go 只负责解析参数和窗口设置。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "chunksim"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Simulation 已验证的模拟配置
	Simulation *config.SimulationConfig
	// SnapshotDir 快照输出目录
	SnapshotDir string
}

// App 是模拟应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	simulation      *config.SimulationConfig
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化模拟应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Simulation == nil {
		return nil, fmt.Errorf("simulation config is nil")
	}

	// gdata 不可用时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		gdataManager = nil
	}
	settingsManager := game.NewSettingsManager(gdataManager)

	// 音频上下文每个进程只能创建一次，重建场景时复用
	audioManager := game.NewAudioManager(audio.NewContext(game.AudioSampleRate), settingsManager)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() game.Scene {
		scene, err := scenes.NewSimulationScene(scenes.SceneOptions{
			Config:          cfg.Simulation,
			SceneManager:    sceneManager,
			SettingsManager: settingsManager,
			AudioManager:    audioManager,
			SnapshotDir:     cfg.SnapshotDir,
		})
		if err != nil {
			log.Printf("[App] 场景创建失败: %v", err)
			return nil
		}
		return scene
	})

	if !sceneManager.Reload() {
		return nil, fmt.Errorf("failed to create simulation scene")
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		simulation:      cfg.Simulation,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新模拟逻辑
// 每个 tick 调用一次，步长固定为 1/TPS
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.Layout(0, 0)
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settingsManager.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settingsManager.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(a.simulation.DeltaTime())
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，等于画布尺寸
// 画布像素与世界坐标一一对应，Ebitengine 负责缩放到窗口
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.simulation.Canvas.Width), int(a.simulation.Canvas.Height)
}

// StartFullscreen 返回上次退出时是否处于全屏
func (a *App) StartFullscreen() bool {
	return a.settingsManager.GetSettings().Fullscreen
}

// Shutdown 在窗口关闭后保存当前场景状态
func (a *App) Shutdown() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		saveable.SaveOnExit()
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
