// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// GridCell 表示网格中的一个格子坐标
// 格子是纯值类型，以值相等作为同一性判断，不持有任何状态
type GridCell struct {
	X int
	Y int
}

// Cell 构造一个格子坐标
func Cell(x, y int) GridCell {
	return GridCell{X: x, Y: y}
}
