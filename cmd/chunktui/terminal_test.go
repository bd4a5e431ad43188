package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

func newTestView(t *testing.T) (*terminalView, tcell.SimulationScreen) {
	t.Helper()

	cfg := config.DefaultSimulationConfig()
	cfg.Canvas = config.SizeConfig{Width: 640, Height: 480}
	cfg.Chunk = config.SizeConfig{Width: 64, Height: 48}
	cfg.Agents.Count = 30
	cfg.Agents.BatchSize = 10
	cfg.Agents.Seed = 3

	pointer := &utils.FixedPointer{X: 320, Y: 240}
	world, err := game.NewWorld(cfg, game.WorldOptions{Pointer: pointer})
	if err != nil {
		t.Fatalf("NewWorld() error: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	t.Cleanup(screen.Fini)
	// 80 列 × 20 行画布 + 1 行状态栏
	screen.SetSize(80, 21)

	return newTerminalView(screen, world, pointer, &cellCue{}, t.TempDir()), screen
}

func TestShadeFor(t *testing.T) {
	tests := []struct {
		count, densest int
		want           rune
	}{
		{0, 10, ' '},
		{1, 0, ' '},
		{1, 100, '░'},
		{5, 10, '▒'},
		{8, 10, '▓'},
		{10, 10, '█'},
		{20, 10, '█'},
	}

	for _, tt := range tests {
		if got := shadeFor(tt.count, tt.densest); got != tt.want {
			t.Errorf("shadeFor(%d, %d) = %q, want %q", tt.count, tt.densest, got, tt.want)
		}
	}
}

func TestMovePointer(t *testing.T) {
	view, _ := newTestView(t)

	// 左上角字符格 -> 画布左上角附近
	view.movePointer(0, 0)
	if view.pointer.X != 4 || view.pointer.Y != 12 {
		t.Errorf("pointer = (%d, %d), want (4, 12)", view.pointer.X, view.pointer.Y)
	}

	// 状态栏上的鼠标事件被忽略
	view.movePointer(10, 20)
	if view.pointer.X != 4 || view.pointer.Y != 12 {
		t.Errorf("status row should not move pointer, got (%d, %d)", view.pointer.X, view.pointer.Y)
	}
}

func TestStepFollowsMouse(t *testing.T) {
	view, _ := newTestView(t)

	// 鼠标移到右下角
	view.handleEvent(tcell.NewEventMouse(79, 19, tcell.ButtonNone, tcell.ModNone))
	for i := 0; i < 300; i++ {
		view.step(1.0 / 60.0)
	}

	if view.lastCell != (chunk.Coords{Col: 9, Row: 0}) {
		t.Errorf("lastCell = %v, want (9, 0)", view.lastCell)
	}
	if c, _ := view.world.MainCell(); c != view.lastCell {
		t.Errorf("lastCell %v out of sync with main cell %v", view.lastCell, c)
	}
}

func TestDrawMarksMainAgent(t *testing.T) {
	view, screen := newTestView(t)
	view.step(1.0 / 60.0)
	view.draw()

	// 主智能体位于画布中心 -> 字符格 (40, 10)
	r, _, _, _ := screen.GetContent(40, 10)
	if r != '@' {
		t.Errorf("center glyph = %q, want '@'", r)
	}

	// 状态栏以空格开头
	r, _, style, _ := screen.GetContent(0, 20)
	if r != ' ' || style != statusStyle {
		t.Errorf("status row starts with %q style %v", r, style)
	}
}

func TestHandleKeys(t *testing.T) {
	view, _ := newTestView(t)
	world := view.world

	view.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if got := world.AgentCount(); got != 41 {
		t.Errorf("after spawn AgentCount() = %d, want 41", got)
	}

	view.handleEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	view.step(1.0 / 60.0)
	if got := world.AgentCount(); got != 31 {
		t.Errorf("after despawn AgentCount() = %d, want 31", got)
	}

	view.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	matches, _ := filepath.Glob(filepath.Join(view.snapshotDir, "snapshot-*.msgpack"))
	if len(matches) != 1 {
		t.Fatalf("snapshot files = %v, want 1", matches)
	}
	if info, err := os.Stat(matches[0]); err != nil || info.Size() == 0 {
		t.Errorf("snapshot file invalid: %v", err)
	}

	view.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone))
	if !view.cue.muted {
		t.Error("m should mute the cue")
	}

	if view.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if view.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Esc should quit")
	}
}
