package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/entities"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/systems"
	"github.com/decker502/chunksim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// 状态提示显示时长（秒）
const messageDuration = 2.0

var backgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}

// SimulationScene 智能体游走模拟场景
//
// 场景持有一个 World（ECS + 空间网格 + 逻辑系统）和渲染系统，
// 并把按键映射为显示开关、批量生成/销毁、快照导出和重建。
// 主智能体换格时播放提示音。
type SimulationScene struct {
	world        *game.World
	renderSystem *systems.RenderSystem

	sceneManager       *game.SceneManager
	settingsManager    *game.SettingsManager
	audioManager       *game.AudioManager
	snapshotSerializer *game.SnapshotSerializer
	snapshotDir        string

	lastCell     chunk.Coords // 上一帧主智能体所在格，用于换格提示音
	message      string
	messageTimer float64
}

// SceneOptions 创建 SimulationScene 的参数
type SceneOptions struct {
	Config          *config.SimulationConfig
	SceneManager    *game.SceneManager    // 可为 nil，此时 R 键不可用
	SettingsManager *game.SettingsManager // 可为 nil，此时使用默认设置且不持久化
	AudioManager    *game.AudioManager    // 可为 nil，此时静音
	SnapshotDir     string                // 快照输出目录
	Pointer         systems.PointerSource // 为 nil 时使用 Ebiten 鼠标/触摸
}

// NewSimulationScene 创建模拟场景
//
// 参数:
//   - opts: 场景参数，Config 必须已通过验证
//
// 返回:
//   - *SimulationScene: 场景实例
//   - error: 网格或智能体创建失败时返回错误
func NewSimulationScene(opts SceneOptions) (*SimulationScene, error) {
	cfg := opts.Config
	pointer := opts.Pointer
	if pointer == nil {
		pointer = utils.EbitenPointer{}
	}
	settingsManager := opts.SettingsManager
	if settingsManager == nil {
		settingsManager = game.NewSettingsManager(nil)
	}
	audioManager := opts.AudioManager
	if audioManager == nil {
		audioManager = game.NewAudioManager(nil, settingsManager)
	}

	// 白色精灵，渲染时按类别着色
	agentImage := entities.NewAgentImage(cfg.Agents.Size, color.White)
	mainImage := entities.NewAgentImage(cfg.Agents.Size*3, color.White)

	world, err := game.NewWorld(cfg, game.WorldOptions{
		Pointer:    pointer,
		AgentImage: agentImage,
		MainImage:  mainImage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	scene := &SimulationScene{
		world: world,
		renderSystem: systems.NewRenderSystem(
			world.EntityManager(),
			world.Grid(),
			world.ProximitySystem(),
			world.ChunkSystem(),
		),
		sceneManager:       opts.SceneManager,
		settingsManager:    settingsManager,
		audioManager:       audioManager,
		snapshotSerializer: game.NewSnapshotSerializer(),
		snapshotDir:        opts.SnapshotDir,
	}
	scene.lastCell, _ = world.MainCell()

	log.Printf("[SimulationScene] Initialized with %d agents", world.AgentCount())
	return scene, nil
}

// Update 处理输入并推进一个逻辑帧
func (s *SimulationScene) Update(deltaTime float64) {
	for _, a := range pressedActions() {
		s.handleAction(a)
	}

	s.world.Update(deltaTime)

	if cell, ok := s.world.MainCell(); ok && cell != s.lastCell {
		s.lastCell = cell
		s.audioManager.PlaySound(game.SoundCellChange)
	}

	if s.messageTimer > 0 {
		s.messageTimer -= deltaTime
		if s.messageTimer <= 0 {
			s.message = ""
		}
	}
}

// Draw 绘制智能体、调试叠加层和状态提示
func (s *SimulationScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	settings := s.settingsManager.GetSettings()
	s.renderSystem.Draw(screen, systems.RenderOptions{
		ShowGrid:  settings.ShowGrid,
		ShowFPS:   settings.ShowFPS,
		ShowLinks: settings.ShowLinks,
	})

	if s.message != "" {
		h := screen.Bounds().Dy()
		ebitenutil.DebugPrintAt(screen, s.message, 4, h-20)
	}
}

// SaveOnExit 退出时保存显示设置
func (s *SimulationScene) SaveOnExit() bool {
	if err := s.settingsManager.Save(); err != nil {
		log.Printf("[SimulationScene] Failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// World 返回模拟状态
func (s *SimulationScene) World() *game.World {
	return s.world
}

// showMessage 在屏幕底部短暂显示状态提示
func (s *SimulationScene) showMessage(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.messageTimer = messageDuration
	log.Printf("[SimulationScene] %s", s.message)
}
