package systems

import (
	"log"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
)

// ChunkSystem 维护空间网格与实体位置的一致性
//
// 每帧为每个可分块实体重新计算所在格子，与放置记录不同时调用 Relocate，
// 然后更新放置记录。实体销毁前由 ReleaseMarked 将其从网格中注销。
type ChunkSystem struct {
	entityManager *ecs.EntityManager
	grid          *chunk.Grid

	// relocations 最近一帧发生的跨格移动次数（调试叠加层显示）
	relocations int
}

// NewChunkSystem 创建空间网格维护系统
//
// 参数:
//   - em: EntityManager 实例
//   - grid: 本次模拟会话的空间网格
func NewChunkSystem(em *ecs.EntityManager, grid *chunk.Grid) *ChunkSystem {
	return &ChunkSystem{
		entityManager: em,
		grid:          grid,
	}
}

// Update 同步所有可分块实体的格子归属
func (s *ChunkSystem) Update(deltaTime float64) {
	s.relocations = 0

	entities := ecs.GetEntitiesWith2[*components.TransformComponent, *components.ChunkableComponent](s.entityManager)
	for _, id := range entities {
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		chunkable, _ := ecs.GetComponent[*components.ChunkableComponent](s.entityManager, id)

		coords := s.grid.CellForPosition(transform.X, transform.Y)
		if coords == chunkable.Coords {
			continue
		}

		if err := s.grid.Relocate(id, chunkable.Coords, coords); err != nil {
			// 放置记录越界说明调用方绕过了 CellForPosition，这里按内部记录重新登记
			log.Printf("[ChunkSystem] Relocate entity %d %v -> %v failed: %v", id, chunkable.Coords, coords, err)
			s.grid.Remove(id)
			if err := s.grid.Insert(coords, id); err != nil {
				log.Printf("[ChunkSystem] Re-insert entity %d failed: %v", id, err)
				continue
			}
		}

		chunkable.Coords = coords
		s.relocations++
	}
}

// ReleaseMarked 将所有被标记删除的实体从网格中注销
// 必须在 EntityManager.RemoveMarkedEntities 之前调用
//
// 返回: 实际注销的实体数量
func (s *ChunkSystem) ReleaseMarked() int {
	released := 0
	for _, id := range s.entityManager.MarkedEntities() {
		if s.grid.Remove(id) {
			released++
		}
	}
	if released > 0 {
		log.Printf("[ChunkSystem] Released %d entities from grid", released)
	}
	return released
}

// Relocations 返回最近一帧的跨格移动次数
func (s *ChunkSystem) Relocations() int {
	return s.relocations
}
