package components

import "github.com/hajimehoshi/ebiten/v2"

// SpriteComponent 存储实体的视觉表现(当前绘制的图像)
// Image 为 nil 时渲染系统跳过该实体
type SpriteComponent struct {
	Image *ebiten.Image
}
