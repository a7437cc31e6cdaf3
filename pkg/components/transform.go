package components

// PositionComponent 实体在屏幕上的位置（像素，精灵左上角）
type PositionComponent struct {
	X, Y float64
}

// ScaleComponent 绘制时的缩放倍率（1.0 = 原始大小）
type ScaleComponent struct {
	ScaleX float64
	ScaleY float64
}
