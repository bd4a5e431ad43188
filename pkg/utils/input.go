package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenPointer 从 Ebiten 读取指针位置
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
type EbitenPointer struct{}

// PointerPosition 获取当前指针位置（屏幕坐标）
func (EbitenPointer) PointerPosition() (int, int) {
	// 检查触摸
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}

	// 返回鼠标位置
	return ebiten.CursorPosition()
}

// FixedPointer 固定位置的指针
// 用于测试，以及终端前端把最后一次鼠标事件的位置交给光标系统
type FixedPointer struct {
	X, Y int
}

// PointerPosition 返回固定位置
func (p *FixedPointer) PointerPosition() (int, int) {
	return p.X, p.Y
}
