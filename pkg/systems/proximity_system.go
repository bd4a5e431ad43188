package systems

import (
	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
)

// ProximitySystem 根据空间网格标记与主智能体同格的智能体
//
// 必须在 ChunkSystem 之后运行，使用本帧已更新的格子归属。
type ProximitySystem struct {
	entityManager *ecs.EntityManager
	grid          *chunk.Grid

	mainEntity ecs.EntityID
	mainCell   chunk.Coords
	hasMain    bool
	cellMates  []ecs.EntityID
}

// NewProximitySystem 创建邻近分类系统
func NewProximitySystem(em *ecs.EntityManager, grid *chunk.Grid) *ProximitySystem {
	return &ProximitySystem{
		entityManager: em,
		grid:          grid,
	}
}

// Update 重新分类所有智能体
// 与主智能体同格为 NearMain，否则为 FarMain；没有主智能体时全部为 FarMain
func (s *ProximitySystem) Update(deltaTime float64) {
	s.hasMain = false
	s.cellMates = s.cellMates[:0]

	near := make(map[ecs.EntityID]struct{})
	mains := ecs.GetEntitiesWith2[*components.CursorAgentComponent, *components.ChunkableComponent](s.entityManager)
	if len(mains) > 0 {
		s.mainEntity = mains[0]
		chunkable, _ := ecs.GetComponent[*components.ChunkableComponent](s.entityManager, s.mainEntity)
		s.mainCell = chunkable.Coords
		s.hasMain = true

		mates, err := s.grid.EntitiesIn(s.mainCell)
		if err == nil {
			for _, id := range mates {
				if id == s.mainEntity {
					continue
				}
				near[id] = struct{}{}
				s.cellMates = append(s.cellMates, id)
			}
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.AgentComponent](s.entityManager) {
		agent, _ := ecs.GetComponent[*components.AgentComponent](s.entityManager, id)
		if agent.Kind == components.AgentMain {
			continue
		}
		if _, ok := near[id]; ok {
			agent.Kind = components.AgentNearMain
		} else {
			agent.Kind = components.AgentFarMain
		}
	}
}

// MainCell 返回主智能体所在的格子
func (s *ProximitySystem) MainCell() (chunk.Coords, bool) {
	return s.mainCell, s.hasMain
}

// MainEntity 返回主智能体ID
func (s *ProximitySystem) MainEntity() (ecs.EntityID, bool) {
	return s.mainEntity, s.hasMain
}

// CellMates 返回最近一帧与主智能体同格的实体（内部切片，调用方不得修改）
func (s *ProximitySystem) CellMates() []ecs.EntityID {
	return s.cellMates
}
