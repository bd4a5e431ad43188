package scenes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decker502/chunksim/pkg/game"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// sceneAction 场景支持的按键动作
type sceneAction int

const (
	actionToggleGrid sceneAction = iota
	actionToggleFPS
	actionToggleLinks
	actionToggleSound
	actionSpawnBatch
	actionDespawnBatch
	actionSnapshot
	actionReload
)

// actionKeys 按键到动作的映射
var actionKeys = []struct {
	key    ebiten.Key
	action sceneAction
}{
	{ebiten.KeyG, actionToggleGrid},
	{ebiten.KeyF, actionToggleFPS},
	{ebiten.KeyL, actionToggleLinks},
	{ebiten.KeyM, actionToggleSound},
	{ebiten.KeySpace, actionSpawnBatch},
	{ebiten.KeyBackspace, actionDespawnBatch},
	{ebiten.KeyP, actionSnapshot},
	{ebiten.KeyR, actionReload},
}

// pressedActions 返回本帧刚按下的按键对应的动作
func pressedActions() []sceneAction {
	var actions []sceneAction
	for _, k := range actionKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			actions = append(actions, k.action)
		}
	}
	return actions
}

// handleAction 执行一个按键动作
func (s *SimulationScene) handleAction(a sceneAction) {
	batch := s.world.Config().Agents.BatchSize

	switch a {
	case actionToggleGrid:
		s.showMessage("grid: %s", onOff(s.settingsManager.ToggleGrid()))

	case actionToggleFPS:
		s.showMessage("stats: %s", onOff(s.settingsManager.ToggleFPS()))

	case actionToggleLinks:
		s.showMessage("links: %s", onOff(s.settingsManager.ToggleLinks()))

	case actionToggleSound:
		s.showMessage("sound: %s", onOff(s.settingsManager.ToggleSound()))

	case actionSpawnBatch:
		n, err := s.world.SpawnAgents(batch)
		if err != nil {
			s.showMessage("spawn failed after %d agents: %v", n, err)
			return
		}
		s.audioManager.PlaySound(game.SoundSpawn)
		s.showMessage("spawned %d agents (total %d)", n, s.world.AgentCount())

	case actionDespawnBatch:
		n := s.world.DespawnAgents(batch)
		s.showMessage("despawned %d agents", n)

	case actionSnapshot:
		path, err := s.writeSnapshot()
		if err != nil {
			s.showMessage("snapshot failed: %v", err)
			return
		}
		s.showMessage("snapshot written to %s", path)

	case actionReload:
		if s.sceneManager == nil {
			return
		}
		s.sceneManager.Reload()
	}
}

// writeSnapshot 把当前网格占用写入快照目录
func (s *SimulationScene) writeSnapshot() (string, error) {
	if s.snapshotDir != "" {
		if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}

	path := filepath.Join(s.snapshotDir, fmt.Sprintf("snapshot-%06d.msgpack", s.world.Tick()))
	if _, err := s.snapshotSerializer.Save(s.world.Grid(), s.world.EntityManager(), s.world.Tick(), path); err != nil {
		return "", err
	}
	return path, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
