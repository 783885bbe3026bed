package components

// PositionComponent 实体的渲染位置（屏幕坐标，浮点像素）
// 行走中的代理渲染位置允许落在格子投影点之间；
// 逻辑格子位置由 WalkerComponent.Cell 单独维护
type PositionComponent struct {
	X float64
	Y float64
}
