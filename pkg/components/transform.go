package components

// TransformComponent 实体在世界坐标系中的位置
// 原点位于画布中心，x 向右，y 向上
type TransformComponent struct {
	X, Y float64
}
