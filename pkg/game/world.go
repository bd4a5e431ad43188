package game

import (
	"fmt"
	"log"
	"math/rand"
	"slices"
	"time"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/decker502/chunksim/pkg/entities"
	"github.com/decker502/chunksim/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// WorldOptions 创建 World 时的可选依赖
type WorldOptions struct {
	// Pointer 指针输入源，为 nil 时主智能体停在原地
	Pointer systems.PointerSource
	// AgentImage, MainImage 智能体精灵，终端前端和测试中为 nil
	AgentImage *ebiten.Image
	MainImage  *ebiten.Image
}

// World 一次模拟会话的全部状态
//
// 持有 EntityManager、空间网格和除渲染以外的所有系统，
// 图形前端和终端前端共用同一套逻辑。
type World struct {
	cfg           *config.SimulationConfig
	entityManager *ecs.EntityManager
	grid          *chunk.Grid
	rng           *rand.Rand
	opts          WorldOptions

	cursorSystem      *systems.CursorSystem
	destinationSystem *systems.DestinationSystem
	movementSystem    *systems.MovementSystem
	lifetimeSystem    *systems.LifetimeSystem
	chunkSystem       *systems.ChunkSystem
	proximitySystem   *systems.ProximitySystem

	mainEntity ecs.EntityID
	tick       uint64
	expired    int
}

// NewWorld 按配置创建网格、系统、主智能体和初始智能体
//
// 参数:
//   - cfg: 已验证的模拟配置
//   - opts: 指针输入与精灵
//
// 返回:
//   - *World: 模拟会话
//   - error: 网格尺寸无效或初始生成失败时返回错误
func NewWorld(cfg *config.SimulationConfig, opts WorldOptions) (*World, error) {
	grid, err := chunk.New(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Chunk.Width, cfg.Chunk.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	seed := cfg.Agents.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		cfg:           cfg,
		entityManager: em,
		grid:          grid,
		rng:           rng,
		opts:          opts,

		destinationSystem: systems.NewDestinationSystem(em, grid, rng, cfg.Agents.DestinationMargin),
		movementSystem:    systems.NewMovementSystem(em),
		lifetimeSystem:    systems.NewLifetimeSystem(em),
		chunkSystem:       systems.NewChunkSystem(em, grid),
		proximitySystem:   systems.NewProximitySystem(em, grid),
	}
	if opts.Pointer != nil {
		w.cursorSystem = systems.NewCursorSystem(em, opts.Pointer, cfg.Canvas.Width, cfg.Canvas.Height)
	}

	w.mainEntity, err = entities.NewCursorAgentEntity(em, grid, 0, 0, cfg.Agents.CursorSpeed, opts.MainImage)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn cursor agent: %w", err)
	}

	if _, err := w.SpawnAgents(cfg.Agents.Count); err != nil {
		return nil, err
	}

	log.Printf("[World] Created %dx%d grid (canvas %.0fx%.0f, chunk %.0fx%.0f), %d agents, seed %d",
		grid.Cols(), grid.Rows(), cfg.Canvas.Width, cfg.Canvas.Height,
		cfg.Chunk.Width, cfg.Chunk.Height, cfg.Agents.Count, seed)
	return w, nil
}

// SpawnAgents 在画布中心生成 n 个智能体
// 初始目标点在 ±canvas/4 范围内随机选取
//
// 返回:
//   - int: 实际生成数量
//   - error: 网格登记失败时返回错误
func (w *World) SpawnAgents(n int) (int, error) {
	spawned := 0
	for i := 0; i < n; i++ {
		opts := entities.AgentOptions{
			Speed:    w.cfg.Agents.Speed,
			Lifetime: w.cfg.Agents.Lifetime,
			DestX:    (w.rng.Float64() - 0.5) * (w.cfg.Canvas.Width / 2),
			DestY:    (w.rng.Float64() - 0.5) * (w.cfg.Canvas.Height / 2),
			Image:    w.opts.AgentImage,
		}
		if _, err := entities.NewAgentEntity(w.entityManager, w.grid, 0, 0, opts); err != nil {
			return spawned, fmt.Errorf("failed to spawn agent %d: %w", i, err)
		}
		spawned++
	}
	return spawned, nil
}

// DespawnAgents 销毁最近生成且尚未标记的 n 个智能体（主智能体除外）
// 实体在本帧结束时从网格注销并删除
//
// 返回:
//   - int: 实际标记删除的数量
func (w *World) DespawnAgents(n int) int {
	ids := ecs.GetEntitiesWith1[*components.AgentComponent](w.entityManager)
	pending := w.entityManager.MarkedEntities()
	marked := 0
	for i := len(ids) - 1; i >= 0 && marked < n; i-- {
		// 同一帧内已标记的实体不重复计数
		if ids[i] == w.mainEntity || slices.Contains(pending, ids[i]) {
			continue
		}
		w.entityManager.DestroyEntity(ids[i])
		marked++
	}
	return marked
}

// Update 推进一个逻辑帧
//
// 系统顺序：
//  1. CursorSystem      主智能体目标跟随指针
//  2. DestinationSystem 已抵达的智能体挑选新目标
//  3. MovementSystem    趋近目标
//  4. LifetimeSystem    标记过期实体
//  5. 注销并删除被标记的实体
//  6. ChunkSystem       跨格实体 Relocate
//  7. ProximitySystem   按主智能体所在格子分类
func (w *World) Update(deltaTime float64) {
	w.tick++

	if w.cursorSystem != nil {
		w.cursorSystem.Update(deltaTime)
	}
	w.destinationSystem.Update(deltaTime)
	w.movementSystem.Update(deltaTime)
	w.expired += w.lifetimeSystem.Update(deltaTime)

	w.purge()

	w.chunkSystem.Update(deltaTime)
	w.proximitySystem.Update(deltaTime)
}

// purge 先从网格注销被标记的实体，再从 ECS 删除
func (w *World) purge() {
	if len(w.entityManager.MarkedEntities()) == 0 {
		return
	}
	w.chunkSystem.ReleaseMarked()
	w.entityManager.RemoveMarkedEntities()
}

// AgentCount 返回当前智能体数量（含主智能体）
func (w *World) AgentCount() int {
	return len(ecs.GetEntitiesWith1[*components.AgentComponent](w.entityManager))
}

// MainCell 返回主智能体当前所在格子
func (w *World) MainCell() (chunk.Coords, bool) {
	return w.grid.Lookup(w.mainEntity)
}

// MainEntity 返回主智能体ID
func (w *World) MainEntity() ecs.EntityID {
	return w.mainEntity
}

// Tick 返回已推进的逻辑帧数
func (w *World) Tick() uint64 {
	return w.tick
}

// Expired 返回因寿命到期而删除的智能体总数
func (w *World) Expired() int {
	return w.expired
}

// EntityManager 返回实体管理器
func (w *World) EntityManager() *ecs.EntityManager {
	return w.entityManager
}

// Grid 返回空间网格
func (w *World) Grid() *chunk.Grid {
	return w.grid
}

// ChunkSystem 返回网格同步系统
func (w *World) ChunkSystem() *systems.ChunkSystem {
	return w.chunkSystem
}

// ProximitySystem 返回邻近分类系统
func (w *World) ProximitySystem() *systems.ProximitySystem {
	return w.proximitySystem
}

// Config 返回模拟配置
func (w *World) Config() *config.SimulationConfig {
	return w.cfg
}
