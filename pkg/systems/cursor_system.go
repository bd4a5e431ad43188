package systems

import (
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/decker502/chunksim/pkg/utils"
)

// PointerSource 提供当前指针的屏幕坐标
type PointerSource interface {
	PointerPosition() (x, y int)
}

// CursorSystem 让主智能体跟随指针
//
// 指针的屏幕坐标被转换为世界坐标后作为主智能体的目标点，
// 主智能体随后由 MovementSystem 以自身速度趋近。
type CursorSystem struct {
	entityManager *ecs.EntityManager
	pointer       PointerSource
	canvasW       float64
	canvasH       float64
}

// NewCursorSystem 创建光标跟随系统
//
// 参数:
//   - em: EntityManager 实例
//   - pointer: 指针输入源
//   - canvasW, canvasH: 画布尺寸（等于逻辑屏幕尺寸）
func NewCursorSystem(em *ecs.EntityManager, pointer PointerSource, canvasW, canvasH float64) *CursorSystem {
	return &CursorSystem{
		entityManager: em,
		pointer:       pointer,
		canvasW:       canvasW,
		canvasH:       canvasH,
	}
}

// Update 更新主智能体的目标点
func (s *CursorSystem) Update(deltaTime float64) {
	px, py := s.pointer.PointerPosition()
	wx, wy := utils.ScreenToWorld(float64(px), float64(py), s.canvasW, s.canvasH)

	for _, id := range ecs.GetEntitiesWith2[*components.CursorAgentComponent, *components.AgentComponent](s.entityManager) {
		agent, _ := ecs.GetComponent[*components.AgentComponent](s.entityManager, id)
		agent.DestX = wx
		agent.DestY = wy
	}
}
