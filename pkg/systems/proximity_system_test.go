package systems

import (
	"slices"
	"testing"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/decker502/chunksim/pkg/entities"
	"github.com/decker502/chunksim/pkg/utils"
)

func agentKind(em *ecs.EntityManager, id ecs.EntityID) components.AgentKind {
	agent, _ := ecs.GetComponent[*components.AgentComponent](em, id)
	return agent.Kind
}

// TestCursorSystemSetsDestination 光标位置（屏幕坐标）转换为主智能体的世界目标点
func TestCursorSystemSetsDestination(t *testing.T) {
	em, grid := newTestWorld(t)
	pointer := &utils.FixedPointer{X: 0, Y: 0}
	system := NewCursorSystem(em, pointer, 640, 480)

	mainID, err := entities.NewCursorAgentEntity(em, grid, 0, 0, 5, nil)
	if err != nil {
		t.Fatalf("NewCursorAgentEntity() error: %v", err)
	}
	other := spawnAgent(t, em, grid, 0, 0)

	system.Update(1.0 / 60.0)

	agent, _ := ecs.GetComponent[*components.AgentComponent](em, mainID)
	if agent.DestX != -320 || agent.DestY != 240 {
		t.Errorf("cursor agent destination = (%v, %v), want (-320, 240)", agent.DestX, agent.DestY)
	}

	otherAgent, _ := ecs.GetComponent[*components.AgentComponent](em, other)
	if otherAgent.DestX != 0 || otherAgent.DestY != 0 {
		t.Error("non-cursor agents must not follow the pointer")
	}

	// 光标移动到屏幕中心
	pointer.X, pointer.Y = 320, 240
	system.Update(1.0 / 60.0)
	if agent.DestX != 0 || agent.DestY != 0 {
		t.Errorf("cursor agent destination = (%v, %v), want (0, 0)", agent.DestX, agent.DestY)
	}
}

// TestProximitySystemClassifiesCellMates 与主智能体同格的智能体为 NearMain
func TestProximitySystemClassifiesCellMates(t *testing.T) {
	em, grid := newTestWorld(t)
	system := NewProximitySystem(em, grid)

	mainID, err := entities.NewCursorAgentEntity(em, grid, 0, 0, 5, nil)
	if err != nil {
		t.Fatalf("NewCursorAgentEntity() error: %v", err)
	}
	near := spawnAgent(t, em, grid, 10, 10)
	far := spawnAgent(t, em, grid, -300, -200)

	system.Update(1.0 / 60.0)

	if got := agentKind(em, mainID); got != components.AgentMain {
		t.Errorf("main agent kind = %v, want main", got)
	}
	if got := agentKind(em, near); got != components.AgentNearMain {
		t.Errorf("near agent kind = %v, want near", got)
	}
	if got := agentKind(em, far); got != components.AgentFarMain {
		t.Errorf("far agent kind = %v, want far", got)
	}

	if cell, ok := system.MainCell(); !ok || cell != (chunk.Coords{Col: 5, Row: 5}) {
		t.Errorf("MainCell() = %v, %v; want (5, 5)", cell, ok)
	}
	if !slices.Equal(system.CellMates(), []ecs.EntityID{near}) {
		t.Errorf("CellMates() = %v, want [%d]", system.CellMates(), near)
	}
}

// TestProximityFollowsCursorAcrossCells 主智能体跨格后分类随之更新
func TestProximityFollowsCursorAcrossCells(t *testing.T) {
	em, grid := newTestWorld(t)
	chunkSystem := NewChunkSystem(em, grid)
	proximity := NewProximitySystem(em, grid)

	mainID, err := entities.NewCursorAgentEntity(em, grid, 0, 0, 5, nil)
	if err != nil {
		t.Fatalf("NewCursorAgentEntity() error: %v", err)
	}
	a := spawnAgent(t, em, grid, 10, 10)
	b := spawnAgent(t, em, grid, -300, -200)

	proximity.Update(1.0 / 60.0)
	if agentKind(em, a) != components.AgentNearMain || agentKind(em, b) != components.AgentFarMain {
		t.Fatal("unexpected initial classification")
	}

	// 主智能体移动到 b 所在格子
	moveTo(em, mainID, -290, -210)
	chunkSystem.Update(1.0 / 60.0)
	proximity.Update(1.0 / 60.0)

	if agentKind(em, a) != components.AgentFarMain {
		t.Errorf("agent a kind = %v, want far", agentKind(em, a))
	}
	if agentKind(em, b) != components.AgentNearMain {
		t.Errorf("agent b kind = %v, want near", agentKind(em, b))
	}
}

// TestProximityWithoutMain 没有主智能体时全部为 FarMain
func TestProximityWithoutMain(t *testing.T) {
	em, grid := newTestWorld(t)
	system := NewProximitySystem(em, grid)

	id := spawnAgent(t, em, grid, 0, 0)
	agent, _ := ecs.GetComponent[*components.AgentComponent](em, id)
	agent.Kind = components.AgentNearMain

	system.Update(1.0 / 60.0)

	if agent.Kind != components.AgentFarMain {
		t.Errorf("kind = %v, want far", agent.Kind)
	}
	if _, ok := system.MainCell(); ok {
		t.Error("MainCell() should report no main agent")
	}
}
