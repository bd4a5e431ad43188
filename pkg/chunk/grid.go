// Package chunk 实现均匀网格空间索引
//
// 画布被划分为 cols × rows 个等大的格子，每个格子记录当前位于其中的实体。
// 世界坐标以画布中心为原点，y 轴向上；格子 (0, 0) 位于画布左下角。
//
// Grid 不做任何加锁，必须由单一的 tick 协调者独占使用。
package chunk

import (
	"math"
	"slices"

	"github.com/decker502/chunksim/pkg/ecs"
)

// Grid 空间分块索引
//
// cells 按行优先展开存储：index = row*cols + col。
// placement 记录每个已登记实体所在的格子，是"实体 → 格子"的唯一事实来源，
// 用于拒绝重复登记，并保证每个实体最多出现在一个格子里。
type Grid struct {
	canvasW, canvasH float64
	cellW, cellH     float64
	cols, rows       int

	cells     [][]ecs.EntityID
	placement map[ecs.EntityID]Coords
}

// MaxCells 单个网格允许的最大格子数
const MaxCells = 1 << 20

// Shape 校验画布与格子尺寸并返回网格形状
//
// 列数与行数先在 float 域计算并与 MaxCells 比较，再转换为 int，
// 极端尺寸不会溢出或触发超大分配。
//
// 返回:
//   - cols, rows: floor(canvas/cell)
//   - error: 参数非法时返回 *ConfigError
func Shape(canvasW, canvasH, cellW, cellH float64) (cols, rows int, err error) {
	cfgErr := func(reason string) error {
		return &ConfigError{CanvasW: canvasW, CanvasH: canvasH, CellW: cellW, CellH: cellH, Reason: reason}
	}

	for _, v := range []float64{canvasW, canvasH, cellW, cellH} {
		// !(v > 0) 同时拦截 NaN
		if !(v > 0) || math.IsInf(v, 0) {
			return 0, 0, cfgErr("dimensions must be positive and finite")
		}
	}

	fcols := math.Floor(canvasW / cellW)
	frows := math.Floor(canvasH / cellH)
	if fcols < 1 {
		return 0, 0, cfgErr("cell width exceeds canvas width")
	}
	if frows < 1 {
		return 0, 0, cfgErr("cell height exceeds canvas height")
	}
	// 商可能是 +Inf（如 1e300/1e-300），比较在 float 域完成
	if fcols > MaxCells || frows > MaxCells || fcols*frows > MaxCells {
		return 0, 0, cfgErr("grid too large")
	}

	return int(fcols), int(frows), nil
}

// New 根据画布尺寸和格子尺寸创建网格
//
// 参数:
//   - canvasW, canvasH: 画布宽高（必须 > 0）
//   - cellW, cellH: 格子宽高（必须 > 0，且不大于画布对应尺寸）
//
// 返回:
//   - *Grid: 所有格子为空的网格
//   - error: 参数非法或格子总数超过 MaxCells 时返回 *ConfigError
func New(canvasW, canvasH, cellW, cellH float64) (*Grid, error) {
	cols, rows, err := Shape(canvasW, canvasH, cellW, cellH)
	if err != nil {
		return nil, err
	}

	return &Grid{
		canvasW:   canvasW,
		canvasH:   canvasH,
		cellW:     cellW,
		cellH:     cellH,
		cols:      cols,
		rows:      rows,
		cells:     make([][]ecs.EntityID, cols*rows),
		placement: make(map[ecs.EntityID]Coords),
	}, nil
}

// Cols 返回列数
func (g *Grid) Cols() int { return g.cols }

// Rows 返回行数
func (g *Grid) Rows() int { return g.rows }

// Limits 返回网格尺寸（以格子计）
func (g *Grid) Limits() Coords { return Coords{Col: g.cols, Row: g.rows} }

// CanvasSize 返回画布宽高
func (g *Grid) CanvasSize() (w, h float64) { return g.canvasW, g.canvasH }

// CellSize 返回格子宽高
func (g *Grid) CellSize() (w, h float64) { return g.cellW, g.cellH }

// InRange 检查坐标是否落在 [0,cols)×[0,rows) 内
func (g *Grid) InRange(c Coords) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

// CellForPosition 将世界坐标映射为格子坐标
//
// 先平移半个画布使原点位于左下角，再除以格子尺寸并向下取整，
// 最后钳制到有效范围内。画布外的位置（光标尚未移动、缓动过冲等）
// 会落到最近的边缘格子，而不是报错。
func (g *Grid) CellForPosition(x, y float64) Coords {
	col := clampIndex(math.Floor((x+g.canvasW/2)/g.cellW), g.cols)
	row := clampIndex(math.Floor((y+g.canvasH/2)/g.cellH), g.rows)
	return Coords{Col: col, Row: row}
}

// clampIndex 把浮点索引钳制到 [0, n-1]，在 float 域比较以避免 int 转换溢出
func clampIndex(f float64, n int) int {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	return int(f)
}

// CellCenter 返回格子中心点的世界坐标
//
// 返回:
//   - x, y: 格子中心
//   - error: 坐标越界时返回 *OutOfRangeError
func (g *Grid) CellCenter(c Coords) (x, y float64, err error) {
	if err := g.checkRange(c); err != nil {
		return 0, 0, err
	}
	x = float64(c.Col)*g.cellW - g.canvasW/2 + g.cellW/2
	y = float64(c.Row)*g.cellH - g.canvasH/2 + g.cellH/2
	return x, y, nil
}

// Insert 将实体登记到指定格子
//
// 同一实体只能登记一次；之后的移动必须走 Relocate。
//
// 返回:
//   - error: 坐标越界返回 *OutOfRangeError，重复登记返回 *DuplicateError
func (g *Grid) Insert(c Coords, id ecs.EntityID) error {
	if err := g.checkRange(c); err != nil {
		return err
	}
	if existing, ok := g.placement[id]; ok {
		return &DuplicateError{Entity: id, Existing: existing}
	}
	idx := g.index(c)
	g.cells[idx] = append(g.cells[idx], id)
	g.placement[id] = c
	return nil
}

// Relocate 把实体从 from 格子移动到 to 格子
//
// from == to 时不做任何事。否则从 from 中移除该实体的第一次出现
// （不存在则静默忽略），再追加到 to。
// 如果调用方记录的 from 已经过时、实体实际位于第三个格子，
// 会按内部记录一并移除，保证实体始终只出现在一个格子里。
func (g *Grid) Relocate(id ecs.EntityID, from, to Coords) error {
	if err := g.checkRange(from); err != nil {
		return err
	}
	if err := g.checkRange(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	removed := g.removeFirst(from, id)
	if cur, ok := g.placement[id]; ok && !removed {
		if cur == to {
			return nil
		}
		g.removeFirst(cur, id)
	}

	idx := g.index(to)
	g.cells[idx] = append(g.cells[idx], id)
	g.placement[id] = to
	return nil
}

// Remove 将实体从网格中注销（实体销毁时调用）
// 返回该实体之前是否被登记
func (g *Grid) Remove(id ecs.EntityID) bool {
	c, ok := g.placement[id]
	if !ok {
		return false
	}
	g.removeFirst(c, id)
	delete(g.placement, id)
	return true
}

// EntitiesIn 返回格子当前成员的快照副本
// 之后对网格的修改不会影响返回的切片
func (g *Grid) EntitiesIn(c Coords) ([]ecs.EntityID, error) {
	if err := g.checkRange(c); err != nil {
		return nil, err
	}
	return slices.Clone(g.cells[g.index(c)]), nil
}

// Count 返回格子中的实体数量，越界返回 0
func (g *Grid) Count(c Coords) int {
	if !g.InRange(c) {
		return 0
	}
	return len(g.cells[g.index(c)])
}

// Lookup 返回实体当前所在的格子
func (g *Grid) Lookup(id ecs.EntityID) (Coords, bool) {
	c, ok := g.placement[id]
	return c, ok
}

// Len 返回已登记的实体总数
func (g *Grid) Len() int {
	return len(g.placement)
}

// Each 按行优先顺序遍历所有非空格子
// ids 是内部切片，回调中不得保留或修改
func (g *Grid) Each(fn func(c Coords, ids []ecs.EntityID)) {
	for idx, ids := range g.cells {
		if len(ids) == 0 {
			continue
		}
		fn(Coords{Col: idx % g.cols, Row: idx / g.cols}, ids)
	}
}

// Neighbours 返回以 c 为中心、边长 2*radius+1 的方形范围内所有有效坐标（含 c 本身）
func (g *Grid) Neighbours(c Coords, radius int) []Coords {
	result := make([]Coords, 0, (2*radius+1)*(2*radius+1))
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			n := c.Offset(dc, dr)
			if g.InRange(n) {
				result = append(result, n)
			}
		}
	}
	return result
}

// Clamp 把任意坐标钳制进网格范围
func (g *Grid) Clamp(c Coords) Coords {
	return Coords{
		Col: min(max(c.Col, 0), g.cols-1),
		Row: min(max(c.Row, 0), g.rows-1),
	}
}

func (g *Grid) index(c Coords) int {
	return c.Row*g.cols + c.Col
}

func (g *Grid) checkRange(c Coords) error {
	if !g.InRange(c) {
		return &OutOfRangeError{Coords: c, Limits: g.Limits()}
	}
	return nil
}

// removeFirst 移除格子中 id 的第一次出现，保持其余成员顺序
func (g *Grid) removeFirst(c Coords, id ecs.EntityID) bool {
	idx := g.index(c)
	i := slices.Index(g.cells[idx], id)
	if i < 0 {
		return false
	}
	g.cells[idx] = slices.Delete(g.cells[idx], i, i+1)
	return true
}
