package chunk

import (
	"errors"
	"fmt"

	"github.com/decker502/chunksim/pkg/ecs"
)

// 哨兵错误，配合 errors.Is 使用
var (
	// ErrConfig 网格构造参数非法（尺寸非正，或格子比画布还大）
	ErrConfig = errors.New("chunk: invalid grid config")
	// ErrOutOfRange 格子坐标超出 [0,cols)×[0,rows)
	ErrOutOfRange = errors.New("chunk: cell out of range")
	// ErrDuplicate 实体已经登记在某个格子中
	ErrDuplicate = errors.New("chunk: entity already tracked")
)

// ConfigError 描述构造网格时的参数错误
// 只会在 New 中产生，调用方应将其视为启动失败
type ConfigError struct {
	CanvasW, CanvasH float64
	CellW, CellH     float64
	Reason           string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chunk: invalid grid config (canvas %.1fx%.1f, cell %.1fx%.1f): %s",
		e.CanvasW, e.CanvasH, e.CellW, e.CellH, e.Reason)
}

// Is 使 errors.Is(err, ErrConfig) 成立
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// OutOfRangeError 描述越界的格子坐标
// 这是调用方违反契约：坐标应先经过 CellForPosition 钳制
type OutOfRangeError struct {
	Coords Coords
	Limits Coords
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("chunk: cell (%d, %d) out of range (valid: col 0-%d, row 0-%d)",
		e.Coords.Col, e.Coords.Row, e.Limits.Col-1, e.Limits.Row-1)
}

// Is 使 errors.Is(err, ErrOutOfRange) 成立
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// DuplicateError 描述重复登记的实体
type DuplicateError struct {
	Entity   ecs.EntityID
	Existing Coords
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("chunk: entity %d already tracked in cell (%d, %d)",
		e.Entity, e.Existing.Col, e.Existing.Row)
}

// Is 使 errors.Is(err, ErrDuplicate) 成立
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
