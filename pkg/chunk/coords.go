package chunk

import "fmt"

// Coords 网格中一个格子的整数坐标
// Col 为列索引（x 方向），Row 为行索引（y 方向，自下而上）
type Coords struct {
	Col int
	Row int
}

// NewCoords 创建格子坐标
func NewCoords(col, row int) Coords {
	return Coords{Col: col, Row: row}
}

// Offset 返回偏移后的坐标（不做范围检查）
func (c Coords) Offset(dCol, dRow int) Coords {
	return Coords{Col: c.Col + dCol, Row: c.Row + dRow}
}

func (c Coords) String() string {
	return fmt.Sprintf("(%d, %d)", c.Col, c.Row)
}
