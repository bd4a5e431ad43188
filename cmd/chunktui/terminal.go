package main

import (
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/components"
	"github.com/decker502/chunksim/pkg/ecs"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

// 密度从低到高的字符
var shades = []rune{' ', '░', '▒', '▓', '█'}

var (
	shadeStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	mainCellStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	mainStyle     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	mateStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// terminalView 在终端中驱动一个 World
//
// 画布被缩放进除最后一行以外的区域，每个字符格按其所在网格格子的
// 占用数量着色；最后一行是状态栏。所有方法只在 tick 协程中调用。
type terminalView struct {
	screen  tcell.Screen
	world   *game.World
	pointer *utils.FixedPointer
	cue     *cellCue

	snapshotDir string
	serializer  *game.SnapshotSerializer

	lastCell chunk.Coords
	status   string
}

func newTerminalView(screen tcell.Screen, world *game.World, pointer *utils.FixedPointer, cue *cellCue, snapshotDir string) *terminalView {
	v := &terminalView{
		screen:      screen,
		world:       world,
		pointer:     pointer,
		cue:         cue,
		snapshotDir: snapshotDir,
		serializer:  game.NewSnapshotSerializer(),
	}
	v.lastCell, _ = world.MainCell()
	return v
}

// canvasSize 返回用于绘制画布的字符区域
func (v *terminalView) canvasSize() (cols, rows int) {
	cols, rows = v.screen.Size()
	return cols, max(rows-1, 1)
}

// handleEvent 处理一个终端事件，返回 false 表示退出
func (v *terminalView) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			n := v.world.DespawnAgents(v.world.Config().Agents.BatchSize)
			v.status = fmt.Sprintf("despawned %d", n)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		v.movePointer(x, y)

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *terminalView) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		n, err := v.world.SpawnAgents(v.world.Config().Agents.BatchSize)
		if err != nil {
			v.status = fmt.Sprintf("spawn failed: %v", err)
			break
		}
		v.status = fmt.Sprintf("spawned %d", n)
	case 'p':
		path := filepath.Join(v.snapshotDir, fmt.Sprintf("snapshot-%06d.msgpack", v.world.Tick()))
		if _, err := v.serializer.Save(v.world.Grid(), v.world.EntityManager(), v.world.Tick(), path); err != nil {
			v.status = fmt.Sprintf("snapshot failed: %v", err)
			break
		}
		v.status = "snapshot " + path
	case 'm':
		if v.cue.toggleMute() {
			v.status = "sound off"
		} else {
			v.status = "sound on"
		}
	}
	return true
}

// movePointer 把鼠标所在字符格换算为画布屏幕坐标，交给光标系统
func (v *terminalView) movePointer(x, y int) {
	cols, rows := v.canvasSize()
	if y >= rows {
		return
	}
	cfg := v.world.Config()
	wx, wy := utils.TerminalToWorld(x, y, cfg.Canvas.Width, cfg.Canvas.Height, cols, rows)
	sx, sy := utils.WorldToScreen(wx, wy, cfg.Canvas.Width, cfg.Canvas.Height)
	v.pointer.X, v.pointer.Y = int(sx), int(sy)
}

// step 推进一帧；主智能体换格时播放提示音
func (v *terminalView) step(deltaTime float64) {
	v.world.Update(deltaTime)

	cell, ok := v.world.MainCell()
	if ok && cell != v.lastCell {
		log.Printf("[chunktui] main agent %v -> %v", v.lastCell, cell)
		v.lastCell = cell
		v.cue.play()
	}
}

// draw 绘制密度图、主智能体、同格智能体和状态栏
func (v *terminalView) draw() {
	v.screen.Clear()
	cols, rows := v.canvasSize()
	grid := v.world.Grid()
	cfg := v.world.Config()
	canvasW, canvasH := cfg.Canvas.Width, cfg.Canvas.Height

	densest := 0
	grid.Each(func(_ chunk.Coords, ids []ecs.EntityID) {
		densest = max(densest, len(ids))
	})
	mainCell, hasMain := v.world.MainCell()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			wx, wy := utils.TerminalToWorld(col, row, canvasW, canvasH, cols, rows)
			cell := grid.CellForPosition(wx, wy)
			style := shadeStyle
			if hasMain && cell == mainCell {
				style = mainCellStyle
			}
			v.screen.SetContent(col, row, shadeFor(grid.Count(cell), densest), nil, style)
		}
	}

	em := v.world.EntityManager()
	for _, id := range v.world.ProximitySystem().CellMates() {
		v.drawEntity(em, id, '•', mateStyle, cols, rows)
	}
	v.drawEntity(em, v.world.MainEntity(), '@', mainStyle, cols, rows)

	v.drawStatus(cols, rows)
	v.screen.Show()
}

func (v *terminalView) drawEntity(em *ecs.EntityManager, id ecs.EntityID, r rune, style tcell.Style, cols, rows int) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok {
		return
	}
	cfg := v.world.Config()
	col, row := utils.ScaleToTerminal(transform.X, transform.Y, cfg.Canvas.Width, cfg.Canvas.Height, cols, rows)
	v.screen.SetContent(col, row, r, nil, style)
}

func (v *terminalView) drawStatus(cols, row int) {
	grid := v.world.Grid()
	cellInfo := "-"
	if c, ok := v.world.MainCell(); ok {
		cellInfo = c.String()
	}
	line := fmt.Sprintf(" tick %d | agents %d | grid %dx%d | cell %s mates %d | relocations %d | %s",
		v.world.Tick(), v.world.AgentCount(), grid.Cols(), grid.Rows(),
		cellInfo, len(v.world.ProximitySystem().CellMates()),
		v.world.ChunkSystem().Relocations(), v.status)

	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, row, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		v.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
}

// shadeFor 按占用比例选择字符，非空格子至少显示最浅的阴影
func shadeFor(count, densest int) rune {
	if count <= 0 || densest <= 0 {
		return shades[0]
	}
	level := int(math.Ceil(float64(count) / float64(densest) * float64(len(shades)-1)))
	return shades[min(max(level, 1), len(shades)-1)]
}
