package entities

import (
	"testing"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
)

func newTestGrid(t *testing.T) *chunk.Grid {
	t.Helper()
	grid, err := chunk.New(640, 480, 64, 48)
	if err != nil {
		t.Fatalf("chunk.New() error: %v", err)
	}
	return grid
}

// TestNewAgentEntity 测试智能体创建后登记到正确格子
func TestNewAgentEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid(t)

	id, err := NewAgentEntity(em, grid, -320, -240, AgentOptions{Speed: 3, DestX: 10, DestY: 20})
	if err != nil {
		t.Fatalf("NewAgentEntity() error: %v", err)
	}

	chunkable, ok := ecs.GetComponent[*components.ChunkableComponent](em, id)
	if !ok {
		t.Fatal("agent should have ChunkableComponent")
	}
	if chunkable.Coords != (chunk.Coords{Col: 0, Row: 0}) {
		t.Errorf("Coords = %v, want (0, 0)", chunkable.Coords)
	}

	if c, ok := grid.Lookup(id); !ok || c != chunkable.Coords {
		t.Errorf("grid.Lookup = %v, %v; want %v", c, ok, chunkable.Coords)
	}

	agent, ok := ecs.GetComponent[*components.AgentComponent](em, id)
	if !ok {
		t.Fatal("agent should have AgentComponent")
	}
	if agent.Kind != components.AgentFarMain || agent.DestX != 10 || agent.DestY != 20 || !agent.IsTravelling {
		t.Errorf("unexpected agent component: %+v", agent)
	}

	if ecs.HasComponent[*components.LifetimeComponent](em, id) {
		t.Error("agent without lifetime should not have LifetimeComponent")
	}
}

func TestNewAgentEntityWithLifetime(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid(t)

	id, err := NewAgentEntity(em, grid, 0, 0, AgentOptions{Speed: 1, Lifetime: 5})
	if err != nil {
		t.Fatalf("NewAgentEntity() error: %v", err)
	}
	lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if !ok || lifetime.MaxLifetime != 5 {
		t.Errorf("expected LifetimeComponent with MaxLifetime 5, got %+v (ok=%v)", lifetime, ok)
	}
}

func TestNewCursorAgentEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid(t)

	id, err := NewCursorAgentEntity(em, grid, 0, 0, 5, nil)
	if err != nil {
		t.Fatalf("NewCursorAgentEntity() error: %v", err)
	}
	if !ecs.HasComponent[*components.CursorAgentComponent](em, id) {
		t.Error("cursor agent should have CursorAgentComponent")
	}
	agent, _ := ecs.GetComponent[*components.AgentComponent](em, id)
	if agent == nil || agent.Kind != components.AgentMain {
		t.Errorf("cursor agent kind = %v, want main", agent)
	}
	if c, _ := grid.Lookup(id); c != (chunk.Coords{Col: 5, Row: 5}) {
		t.Errorf("cursor agent cell = %v, want (5, 5)", c)
	}
}

// TestSpawnOutsideCanvasClamps 画布外出生点应登记到边缘格子
func TestSpawnOutsideCanvasClamps(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid(t)

	id, err := NewAgentEntity(em, grid, 5000, -5000, AgentOptions{Speed: 1})
	if err != nil {
		t.Fatalf("NewAgentEntity() error: %v", err)
	}
	if c, _ := grid.Lookup(id); c != (chunk.Coords{Col: 9, Row: 0}) {
		t.Errorf("cell = %v, want (9, 0)", c)
	}
}
