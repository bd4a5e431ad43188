// Package utils 提供通用工具函数
//
// coordinates.go 负责世界坐标与屏幕坐标之间的转换。
//
// # 坐标系统概述
//
//   - **世界坐标**：原点位于画布中心，x 向右，y 向上（空间网格使用此坐标）
//   - **屏幕坐标**：原点位于窗口左上角，x 向右，y 向下（Ebiten 绘制与鼠标输入使用此坐标）
//
// 逻辑屏幕尺寸等于画布尺寸，因此两者之间只有平移和 y 轴翻转：
//
//	screenX = worldX + canvasW/2
//	screenY = canvasH/2 - worldY
package utils

// ScreenToWorld 将屏幕坐标转换为世界坐标
//
// 参数:
//   - screenX, screenY: 屏幕坐标（如鼠标位置）
//   - canvasW, canvasH: 画布尺寸
//
// 返回:
//   - worldX, worldY: 世界坐标
func ScreenToWorld(screenX, screenY, canvasW, canvasH float64) (worldX, worldY float64) {
	return screenX - canvasW/2, canvasH/2 - screenY
}

// WorldToScreen 将世界坐标转换为屏幕坐标
func WorldToScreen(worldX, worldY, canvasW, canvasH float64) (screenX, screenY float64) {
	return worldX + canvasW/2, canvasH/2 - worldY
}

// ScaleToTerminal 将世界坐标映射到 cols × rows 的字符网格
// 终端前端用它把画布缩放进终端窗口，结果会被钳制到有效范围内
func ScaleToTerminal(worldX, worldY, canvasW, canvasH float64, cols, rows int) (col, row int) {
	sx, sy := WorldToScreen(worldX, worldY, canvasW, canvasH)
	col = clampInt(int(sx/canvasW*float64(cols)), 0, cols-1)
	row = clampInt(int(sy/canvasH*float64(rows)), 0, rows-1)
	return col, row
}

// TerminalToWorld 将字符网格坐标映射回世界坐标（取字符格中心）
func TerminalToWorld(col, row int, canvasW, canvasH float64, cols, rows int) (worldX, worldY float64) {
	sx := (float64(col) + 0.5) / float64(cols) * canvasW
	sy := (float64(row) + 0.5) / float64(rows) * canvasH
	return ScreenToWorld(sx, sy, canvasW, canvasH)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
