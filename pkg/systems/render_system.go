package systems

import (
	"fmt"
	"image/color"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/decker502/chunksim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试叠加层颜色
var (
	// 半透明红色格子边框
	gridColor = color.RGBA{R: 255, G: 0, B: 0, A: 96}
	// 主智能体所在格子
	mainCellColor = color.RGBA{R: 255, G: 255, B: 0, A: 40}
	// 主智能体到同格智能体的连线
	linkColor = color.RGBA{R: 0, G: 200, B: 255, A: 160}
)

// KindColor 返回智能体类别对应的渲染颜色
func KindColor(kind components.AgentKind) color.Color {
	switch kind {
	case components.AgentMain:
		return color.RGBA{R: 255, G: 60, B: 60, A: 255}
	case components.AgentNearMain:
		return color.RGBA{R: 255, G: 220, B: 0, A: 255}
	default:
		return color.RGBA{R: 220, G: 220, B: 220, A: 255}
	}
}

// RenderOptions 控制调试叠加层
type RenderOptions struct {
	ShowGrid  bool // 绘制所有格子边框
	ShowFPS   bool // 绘制帧率与统计信息
	ShowLinks bool // 绘制主智能体到同格智能体的连线
}

// RenderSystem 负责绘制智能体与调试叠加层
type RenderSystem struct {
	entityManager *ecs.EntityManager
	grid          *chunk.Grid
	proximity     *ProximitySystem
	chunkSystem   *ChunkSystem
}

// NewRenderSystem 创建渲染系统
//
// 参数:
//   - em: EntityManager 实例
//   - grid: 空间网格，用于绘制格子边框
//   - proximity: 提供主智能体所在格子与同格实体
//   - chunkSystem: 提供跨格移动统计
func NewRenderSystem(em *ecs.EntityManager, grid *chunk.Grid, proximity *ProximitySystem, chunkSystem *ChunkSystem) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		grid:          grid,
		proximity:     proximity,
		chunkSystem:   chunkSystem,
	}
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, opts RenderOptions) {
	if opts.ShowGrid {
		s.drawGrid(screen)
	}
	if opts.ShowLinks {
		s.drawLinks(screen)
	}
	s.drawAgents(screen)
	if opts.ShowFPS {
		s.drawStats(screen)
	}
}

// drawAgents 按类别着色绘制所有智能体，主智能体最后绘制保证位于最上层
func (s *RenderSystem) drawAgents(screen *ebiten.Image) {
	canvasW, canvasH := s.grid.CanvasSize()

	var mains []ecs.EntityID
	entities := ecs.GetEntitiesWith3[*components.AgentComponent, *components.TransformComponent, *components.SpriteComponent](s.entityManager)
	for _, id := range entities {
		agent, _ := ecs.GetComponent[*components.AgentComponent](s.entityManager, id)
		if agent.Kind == components.AgentMain {
			mains = append(mains, id)
			continue
		}
		s.drawSprite(screen, id, agent.Kind, canvasW, canvasH)
	}
	for _, id := range mains {
		s.drawSprite(screen, id, components.AgentMain, canvasW, canvasH)
	}
}

func (s *RenderSystem) drawSprite(screen *ebiten.Image, id ecs.EntityID, kind components.AgentKind, canvasW, canvasH float64) {
	sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
	if sprite.Image == nil {
		return
	}
	transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

	// 精灵锚点为中心
	bounds := sprite.Image.Bounds()
	sx, sy := utils.WorldToScreen(transform.X, transform.Y, canvasW, canvasH)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(sx-float64(bounds.Dx())/2, sy-float64(bounds.Dy())/2)
	op.ColorScale.ScaleWithColor(KindColor(kind))
	screen.DrawImage(sprite.Image, op)
}

// drawGrid 绘制每个格子的边框，并高亮主智能体所在格子
func (s *RenderSystem) drawGrid(screen *ebiten.Image) {
	cellW, cellH := s.grid.CellSize()
	for row := 0; row < s.grid.Rows(); row++ {
		for col := 0; col < s.grid.Cols(); col++ {
			x, y, ok := s.cellScreenRect(chunk.NewCoords(col, row))
			if !ok {
				continue
			}
			vector.StrokeRect(screen, x, y, float32(cellW), float32(cellH), 1, gridColor, false)
		}
	}

	if cell, ok := s.proximity.MainCell(); ok {
		if x, y, ok := s.cellScreenRect(cell); ok {
			vector.DrawFilledRect(screen, x, y, float32(cellW), float32(cellH), mainCellColor, false)
		}
	}
}

// cellScreenRect 返回格子左上角的屏幕坐标
func (s *RenderSystem) cellScreenRect(c chunk.Coords) (x, y float32, ok bool) {
	cx, cy, err := s.grid.CellCenter(c)
	if err != nil {
		return 0, 0, false
	}
	canvasW, canvasH := s.grid.CanvasSize()
	cellW, cellH := s.grid.CellSize()
	sx, sy := utils.WorldToScreen(cx, cy, canvasW, canvasH)
	return float32(sx - cellW/2), float32(sy - cellH/2), true
}

// drawLinks 从主智能体向每个同格智能体画线
func (s *RenderSystem) drawLinks(screen *ebiten.Image) {
	mainID, ok := s.proximity.MainEntity()
	if !ok {
		return
	}
	mainTransform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, mainID)
	if !ok {
		return
	}

	canvasW, canvasH := s.grid.CanvasSize()
	mx, my := utils.WorldToScreen(mainTransform.X, mainTransform.Y, canvasW, canvasH)
	for _, id := range s.proximity.CellMates() {
		transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			continue
		}
		x, y := utils.WorldToScreen(transform.X, transform.Y, canvasW, canvasH)
		vector.StrokeLine(screen, float32(mx), float32(my), float32(x), float32(y), 1, linkColor, true)
	}
}

// drawStats 左上角绘制帧率与网格统计
func (s *RenderSystem) drawStats(screen *ebiten.Image) {
	cellInfo := "-"
	if cell, ok := s.proximity.MainCell(); ok {
		cellInfo = cell.String()
	}
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nAgents: %d  Grid: %dx%d  Relocations: %d\nCursor cell: %s  Mates: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		s.grid.Len(), s.grid.Cols(), s.grid.Rows(), s.chunkSystem.Relocations(),
		cellInfo, len(s.proximity.CellMates()))
	ebitenutil.DebugPrint(screen, msg)
}
