package utils

import "testing"

func TestScreenToWorld(t *testing.T) {
	tests := []struct {
		name         string
		screenX      float64
		screenY      float64
		wantX, wantY float64
	}{
		{name: "左上角", screenX: 0, screenY: 0, wantX: -320, wantY: 240},
		{name: "中心", screenX: 320, screenY: 240, wantX: 0, wantY: 0},
		{name: "右下角", screenX: 640, screenY: 480, wantX: 320, wantY: -240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ScreenToWorld(tt.screenX, tt.screenY, 640, 480)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("ScreenToWorld(%v, %v) = (%v, %v), want (%v, %v)",
					tt.screenX, tt.screenY, x, y, tt.wantX, tt.wantY)
			}

			// 往返转换
			sx, sy := WorldToScreen(x, y, 640, 480)
			if sx != tt.screenX || sy != tt.screenY {
				t.Errorf("WorldToScreen round trip = (%v, %v), want (%v, %v)", sx, sy, tt.screenX, tt.screenY)
			}
		})
	}
}

func TestScaleToTerminal(t *testing.T) {
	tests := []struct {
		name             string
		worldX, worldY   float64
		wantCol, wantRow int
	}{
		{name: "左上角", worldX: -320, worldY: 240, wantCol: 0, wantRow: 0},
		{name: "中心", worldX: 0, worldY: 0, wantCol: 40, wantRow: 12},
		{name: "右下角钳制", worldX: 320, worldY: -240, wantCol: 79, wantRow: 23},
		{name: "画布外钳制", worldX: -1000, worldY: 1000, wantCol: 0, wantRow: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := ScaleToTerminal(tt.worldX, tt.worldY, 640, 480, 80, 24)
			if col != tt.wantCol || row != tt.wantRow {
				t.Errorf("ScaleToTerminal = (%d, %d), want (%d, %d)", col, row, tt.wantCol, tt.wantRow)
			}
		})
	}
}

func TestTerminalToWorldRoundTrip(t *testing.T) {
	for row := 0; row < 24; row++ {
		for col := 0; col < 80; col++ {
			x, y := TerminalToWorld(col, row, 640, 480, 80, 24)
			gotCol, gotRow := ScaleToTerminal(x, y, 640, 480, 80, 24)
			if gotCol != col || gotRow != row {
				t.Fatalf("round trip (%d, %d) -> (%v, %v) -> (%d, %d)", col, row, x, y, gotCol, gotRow)
			}
		}
	}
}
