package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
)

// DestinationSystem 为抵达目标的智能体挑选新目标
//
// 新目标位于当前格子或其相邻格子（偏移 -1/0/1）内的随机位置，
// 并被限制在 ±canvas/2/margin 的范围内，使智能体不会贴着画布边缘游走。
// 跟随光标的主智能体由 CursorSystem 负责，不在此处理。
type DestinationSystem struct {
	entityManager *ecs.EntityManager
	grid          *chunk.Grid
	rng           *rand.Rand
	margin        float64
}

// NewDestinationSystem 创建目标选择系统
//
// 参数:
//   - em: EntityManager 实例
//   - grid: 空间网格，用于把格子坐标转换为世界坐标
//   - rng: 随机数源（测试中传入固定种子）
//   - margin: 目标边界除数（>= 1）
func NewDestinationSystem(em *ecs.EntityManager, grid *chunk.Grid, rng *rand.Rand, margin float64) *DestinationSystem {
	return &DestinationSystem{
		entityManager: em,
		grid:          grid,
		rng:           rng,
		margin:        margin,
	}
}

// Update 检查每个智能体是否已抵达目标
func (s *DestinationSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[*components.AgentComponent, *components.ChunkableComponent, *components.TransformComponent](s.entityManager)
	for _, id := range entities {
		if ecs.HasComponent[*components.CursorAgentComponent](s.entityManager, id) {
			continue
		}

		agent, _ := ecs.GetComponent[*components.AgentComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		chunkable, _ := ecs.GetComponent[*components.ChunkableComponent](s.entityManager, id)

		if !hasArrived(agent, transform) {
			continue
		}

		agent.DestX, agent.DestY = s.pickDestination(chunkable.Coords)
		agent.IsTravelling = true
	}
}

// hasArrived 四舍五入后位置与目标重合即视为抵达
func hasArrived(agent *components.AgentComponent, transform *components.TransformComponent) bool {
	return math.Round(agent.DestX) == math.Round(transform.X) &&
		math.Round(agent.DestY) == math.Round(transform.Y)
}

// pickDestination 在 from 周围的格子里随机挑选一个目标点
func (s *DestinationSystem) pickDestination(from chunk.Coords) (x, y float64) {
	target := s.grid.Clamp(from.Offset(s.randomStep(), s.randomStep()))

	// target 已钳制，CellCenter 不会失败
	cx, cy, _ := s.grid.CellCenter(target)
	cellW, cellH := s.grid.CellSize()
	canvasW, canvasH := s.grid.CanvasSize()

	limitX := canvasW / 2 / s.margin
	limitY := canvasH / 2 / s.margin

	x = clampFloat((s.rng.Float64()-0.5)*cellW+cx, -limitX, limitX)
	y = clampFloat((s.rng.Float64()-0.5)*cellH+cy, -limitY, limitY)
	return x, y
}

// randomStep 返回 -1、0 或 1
// (r-0.5)*2 落在 (-1, 1)，取整（四舍六入五成双）后得到三个离散值
func (s *DestinationSystem) randomStep() int {
	return int(math.RoundToEven((s.rng.Float64() - 0.5) * 2))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
