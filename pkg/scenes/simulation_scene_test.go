package scenes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/utils"
)

func newTestSceneOptions(t *testing.T) SceneOptions {
	t.Helper()
	cfg := config.DefaultSimulationConfig()
	cfg.Canvas = config.SizeConfig{Width: 640, Height: 480}
	cfg.Chunk = config.SizeConfig{Width: 64, Height: 48}
	cfg.Agents.Count = 20
	cfg.Agents.BatchSize = 5
	cfg.Agents.Seed = 1

	return SceneOptions{
		Config:      cfg,
		SnapshotDir: filepath.Join(t.TempDir(), "snapshots"),
		Pointer:     &utils.FixedPointer{X: 320, Y: 240},
	}
}

func newTestScene(t *testing.T) *SimulationScene {
	t.Helper()
	scene, err := NewSimulationScene(newTestSceneOptions(t))
	if err != nil {
		t.Fatalf("NewSimulationScene() error: %v", err)
	}
	return scene
}

func TestSimulationSceneToggles(t *testing.T) {
	scene := newTestScene(t)
	settings := scene.settingsManager.GetSettings()
	grid, fps, links, sound := settings.ShowGrid, settings.ShowFPS, settings.ShowLinks, settings.SoundEnabled

	scene.handleAction(actionToggleGrid)
	scene.handleAction(actionToggleFPS)
	scene.handleAction(actionToggleLinks)
	scene.handleAction(actionToggleSound)

	if settings.ShowGrid == grid || settings.ShowFPS == fps || settings.ShowLinks == links || settings.SoundEnabled == sound {
		t.Errorf("toggles not applied: %+v", *settings)
	}
	if scene.message == "" {
		t.Error("toggle should show a status message")
	}
}

func TestSimulationSceneSpawnDespawn(t *testing.T) {
	scene := newTestScene(t)
	world := scene.World()

	// 20 + 主智能体
	if got := world.AgentCount(); got != 21 {
		t.Fatalf("AgentCount() = %d, want 21", got)
	}

	scene.handleAction(actionSpawnBatch)
	if got := world.AgentCount(); got != 26 {
		t.Errorf("after spawn AgentCount() = %d, want 26", got)
	}

	scene.handleAction(actionDespawnBatch)
	scene.Update(1.0 / 60.0)
	if got := world.AgentCount(); got != 21 {
		t.Errorf("after despawn AgentCount() = %d, want 21", got)
	}
	if world.Grid().Len() != 21 {
		t.Errorf("grid.Len() = %d, want 21", world.Grid().Len())
	}
}

func TestSimulationSceneSnapshot(t *testing.T) {
	scene := newTestScene(t)
	scene.Update(1.0 / 60.0)

	path, err := scene.writeSnapshot()
	if err != nil {
		t.Fatalf("writeSnapshot() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	snap, err := game.NewSnapshotSerializer().Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if snap.Tick != 1 {
		t.Errorf("Tick = %d, want 1", snap.Tick)
	}
	if snap.Occupancy() != scene.World().Grid().Len() {
		t.Errorf("Occupancy() = %d, want %d", snap.Occupancy(), scene.World().Grid().Len())
	}
}

func TestSimulationSceneReload(t *testing.T) {
	opts := newTestSceneOptions(t)
	sm := game.NewSceneManager()
	opts.SceneManager = sm
	sm.SetSceneFactory(func() game.Scene {
		scene, err := NewSimulationScene(opts)
		if err != nil {
			t.Errorf("NewSimulationScene() error: %v", err)
			return nil
		}
		return scene
	})
	if !sm.Reload() {
		t.Fatal("initial Reload failed")
	}

	first := sm.GetCurrentScene().(*SimulationScene)
	first.handleAction(actionSpawnBatch)
	first.handleAction(actionReload)

	second, ok := sm.GetCurrentScene().(*SimulationScene)
	if !ok || second == first {
		t.Fatal("reload should install a fresh scene")
	}
	if got := second.World().AgentCount(); got != 21 {
		t.Errorf("fresh scene AgentCount() = %d, want 21", got)
	}
}

func TestSimulationSceneMessageExpires(t *testing.T) {
	scene := newTestScene(t)
	scene.handleAction(actionToggleGrid)

	for i := 0; i < int(messageDuration*60)+1; i++ {
		scene.Update(1.0 / 60.0)
	}
	if scene.message != "" {
		t.Errorf("message %q should have expired", scene.message)
	}
}

func TestSimulationSceneTracksMainCell(t *testing.T) {
	opts := newTestSceneOptions(t)
	pointer := &utils.FixedPointer{X: 320, Y: 240}
	opts.Pointer = pointer
	scene, err := NewSimulationScene(opts)
	if err != nil {
		t.Fatalf("NewSimulationScene() error: %v", err)
	}

	if scene.lastCell != (chunk.Coords{Col: 5, Row: 5}) {
		t.Fatalf("initial lastCell = %v, want (5, 5)", scene.lastCell)
	}

	// 指针移到左上角，主智能体一路换格
	pointer.X, pointer.Y = 10, 10
	for i := 0; i < 300; i++ {
		scene.Update(1.0 / 60.0)
	}

	cell, _ := scene.World().MainCell()
	if scene.lastCell != cell {
		t.Errorf("lastCell = %v, want %v", scene.lastCell, cell)
	}
	if cell != (chunk.Coords{Col: 0, Row: 9}) {
		t.Errorf("main cell = %v, want (0, 9)", cell)
	}
}
