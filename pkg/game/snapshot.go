package game

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion 快照格式版本，结构变化时递增
const SnapshotVersion = 1

// CellSnapshot 单个非空格子的成员列表（按插入顺序）
type CellSnapshot struct {
	Col      int            `msgpack:"col"`
	Row      int            `msgpack:"row"`
	Entities []ecs.EntityID `msgpack:"entities"`
}

// AgentSnapshot 单个智能体的位置与分类
type AgentSnapshot struct {
	ID     ecs.EntityID `msgpack:"id"`
	X      float64      `msgpack:"x"`
	Y      float64      `msgpack:"y"`
	Kind   string       `msgpack:"kind"`
	Cursor bool         `msgpack:"cursor,omitempty"`
}

// Snapshot 某一帧的网格占用快照
type Snapshot struct {
	Version int       `msgpack:"version"`
	SavedAt time.Time `msgpack:"savedAt"`
	Tick    uint64    `msgpack:"tick"`
	CanvasW float64   `msgpack:"canvasW"`
	CanvasH float64   `msgpack:"canvasH"`
	CellW   float64   `msgpack:"cellW"`
	CellH   float64   `msgpack:"cellH"`
	Cols    int       `msgpack:"cols"`
	Rows    int       `msgpack:"rows"`

	Cells  []CellSnapshot  `msgpack:"cells"`
	Agents []AgentSnapshot `msgpack:"agents"`
}

// SnapshotSerializer 网格快照序列化器
//
// 这是一个工具类，不是 ECS 系统：只读取网格和实体数据，
// 以 msgpack 二进制格式写入文件，也可以把快照重建为网格。
type SnapshotSerializer struct{}

// NewSnapshotSerializer 创建快照序列化器实例
func NewSnapshotSerializer() *SnapshotSerializer {
	return &SnapshotSerializer{}
}

// Capture 采集当前网格与智能体状态
//
// 参数：
//   - grid: 空间网格
//   - em: EntityManager 实例，可为 nil（仅采集网格）
//   - tick: 当前帧号
func (s *SnapshotSerializer) Capture(grid *chunk.Grid, em *ecs.EntityManager, tick uint64) (*Snapshot, error) {
	if grid == nil {
		return nil, fmt.Errorf("grid is nil")
	}

	canvasW, canvasH := grid.CanvasSize()
	cellW, cellH := grid.CellSize()
	snap := &Snapshot{
		Version: SnapshotVersion,
		SavedAt: time.Now(),
		Tick:    tick,
		CanvasW: canvasW,
		CanvasH: canvasH,
		CellW:   cellW,
		CellH:   cellH,
		Cols:    grid.Cols(),
		Rows:    grid.Rows(),
	}

	grid.Each(func(c chunk.Coords, ids []ecs.EntityID) {
		snap.Cells = append(snap.Cells, CellSnapshot{
			Col:      c.Col,
			Row:      c.Row,
			Entities: append([]ecs.EntityID(nil), ids...),
		})
	})

	if em != nil {
		snap.Agents = s.collectAgents(em)
	}

	return snap, nil
}

// collectAgents 收集所有智能体的位置和分类
func (s *SnapshotSerializer) collectAgents(em *ecs.EntityManager) []AgentSnapshot {
	ids := ecs.GetEntitiesWith2[*components.AgentComponent, *components.TransformComponent](em)
	agents := make([]AgentSnapshot, 0, len(ids))
	for _, id := range ids {
		agent, _ := ecs.GetComponent[*components.AgentComponent](em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		agents = append(agents, AgentSnapshot{
			ID:     id,
			X:      transform.X,
			Y:      transform.Y,
			Kind:   agent.Kind.String(),
			Cursor: ecs.HasComponent[*components.CursorAgentComponent](em, id),
		})
	}
	return agents
}

// Save 采集快照并写入文件
//
// 返回：
//   - *Snapshot: 写入的快照
//   - error: 如果采集或写入失败返回错误
func (s *SnapshotSerializer) Save(grid *chunk.Grid, em *ecs.EntityManager, tick uint64, filePath string) (*Snapshot, error) {
	snap, err := s.Capture(grid, em, tick)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	if err := msgpack.NewEncoder(file).Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	log.Printf("[SnapshotSerializer] Saved snapshot to %s: tick=%d, grid=%dx%d, cells=%d, agents=%d",
		filePath, snap.Tick, snap.Cols, snap.Rows, len(snap.Cells), len(snap.Agents))
	return snap, nil
}

// Load 从文件读取快照并检查版本
func (s *SnapshotSerializer) Load(filePath string) (*Snapshot, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("incompatible snapshot version: %d (expected %d)",
			snap.Version, SnapshotVersion)
	}

	log.Printf("[SnapshotSerializer] Loaded snapshot from %s: tick=%d, cells=%d, agents=%d",
		filePath, snap.Tick, len(snap.Cells), len(snap.Agents))
	return &snap, nil
}

// Restore 按快照重建网格，格内顺序与快照一致
func (s *SnapshotSerializer) Restore(snap *Snapshot) (*chunk.Grid, error) {
	grid, err := chunk.New(snap.CanvasW, snap.CanvasH, snap.CellW, snap.CellH)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild grid: %w", err)
	}
	if grid.Cols() != snap.Cols || grid.Rows() != snap.Rows {
		return nil, fmt.Errorf("grid dimensions mismatch: got %dx%d, snapshot has %dx%d",
			grid.Cols(), grid.Rows(), snap.Cols, snap.Rows)
	}

	for _, cell := range snap.Cells {
		c := chunk.NewCoords(cell.Col, cell.Row)
		for _, id := range cell.Entities {
			if err := grid.Insert(c, id); err != nil {
				return nil, fmt.Errorf("failed to restore cell %v: %w", c, err)
			}
		}
	}
	return grid, nil
}

// Occupancy 返回快照中的成员总数
func (snap *Snapshot) Occupancy() int {
	total := 0
	for _, cell := range snap.Cells {
		total += len(cell.Entities)
	}
	return total
}
