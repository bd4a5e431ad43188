package systems

import (
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
)

// MovementSystem 让智能体向目标点趋近
//
// 每帧移动剩余距离的 speed*dt 比例（指数趋近），
// 比例上限为 1，避免低帧率时越过目标。
type MovementSystem struct {
	entityManager *ecs.EntityManager
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager) *MovementSystem {
	return &MovementSystem{entityManager: em}
}

// Update 更新所有智能体的位置
func (s *MovementSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.AgentComponent, *components.TransformComponent](s.entityManager)
	for _, id := range entities {
		agent, _ := ecs.GetComponent[*components.AgentComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		factor := min(agent.Speed*deltaTime, 1.0)
		transform.X += (agent.DestX - transform.X) * factor
		transform.Y += (agent.DestY - transform.Y) * factor
		agent.IsTravelling = !hasArrived(agent, transform)
	}
}
