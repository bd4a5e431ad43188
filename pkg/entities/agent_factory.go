package entities

import (
	"fmt"
	"image/color"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// AgentOptions 创建智能体时的参数
type AgentOptions struct {
	Speed    float64
	Lifetime float64 // 0 表示永久存活
	// DestX, DestY 初始目标点
	DestX, DestY float64
	Image        *ebiten.Image
}

// NewAgentEntity 创建一个游走智能体并登记到空间网格
// 参数:
//   - em: EntityManager 实例
//   - grid: 空间网格，实体会被登记到 (x, y) 所在的格子
//   - x, y: 出生点（世界坐标）
//   - opts: 速度、寿命、初始目标与精灵
//
// 返回: 创建的实体ID；登记失败时返回错误（实体已被标记删除）
func NewAgentEntity(em *ecs.EntityManager, grid *chunk.Grid, x, y float64, opts AgentOptions) (ecs.EntityID, error) {
	id, err := spawnChunkable(em, grid, x, y)
	if err != nil {
		return 0, err
	}

	em.AddComponent(id, &components.AgentComponent{
		Kind:         components.AgentFarMain,
		Speed:        opts.Speed,
		DestX:        opts.DestX,
		DestY:        opts.DestY,
		IsTravelling: true,
	})
	em.AddComponent(id, &components.SpriteComponent{Image: opts.Image})

	if opts.Lifetime > 0 {
		em.AddComponent(id, &components.LifetimeComponent{
			MaxLifetime: opts.Lifetime,
		})
	}

	return id, nil
}

// NewCursorAgentEntity 创建跟随光标的主智能体
// 主智能体永久存活，初始目标为出生点
func NewCursorAgentEntity(em *ecs.EntityManager, grid *chunk.Grid, x, y, speed float64, img *ebiten.Image) (ecs.EntityID, error) {
	id, err := spawnChunkable(em, grid, x, y)
	if err != nil {
		return 0, err
	}

	em.AddComponent(id, &components.AgentComponent{
		Kind:         components.AgentMain,
		Speed:        speed,
		DestX:        x,
		DestY:        y,
		IsTravelling: true,
	})
	em.AddComponent(id, &components.CursorAgentComponent{})
	em.AddComponent(id, &components.SpriteComponent{Image: img})

	return id, nil
}

// spawnChunkable 创建带位置与放置记录的实体，并登记到网格
func spawnChunkable(em *ecs.EntityManager, grid *chunk.Grid, x, y float64) (ecs.EntityID, error) {
	id := em.CreateEntity()
	coords := grid.CellForPosition(x, y)

	if err := grid.Insert(coords, id); err != nil {
		em.DestroyEntity(id)
		return 0, fmt.Errorf("failed to register entity %d in cell %v: %w", id, coords, err)
	}

	em.AddComponent(id, &components.TransformComponent{X: x, Y: y})
	em.AddComponent(id, &components.ChunkableComponent{Coords: coords})
	return id, nil
}

// NewAgentImage 生成实心圆点精灵
// 图像边长为 2*radius（至少 1 像素）
func NewAgentImage(radius float64, clr color.Color) *ebiten.Image {
	size := max(int(radius*2+0.5), 1)
	img := ebiten.NewImage(size, size)
	r := float32(size) / 2
	vector.DrawFilledCircle(img, r, r, r, clr, true)
	return img
}
