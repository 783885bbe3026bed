// Package utils 提供游戏开发中常用的工具函数
//
// iso.go 提供等距投影坐标转换工具库，是网格导航子系统的最底层组件。
//
// # 坐标系统概述
//
// 本项目使用以下坐标系统：
//   - **网格坐标**：整数格子 (x, y)，寻路和占用状态的逻辑单位
//   - **屏幕坐标**：浮点像素，渲染与连续移动的单位
//
// # 核心转换公式
//
// 网格坐标 → 屏幕坐标（菱形瓦片投影）：
//
//	screenX = (x - y) * TileWidth/2 + OriginX
//	screenY = (x + y) * TileHeight/2 + OriginY
//
// 屏幕坐标 → 网格坐标：上式的精确代数逆变换，随后向下取整。
// 因为取整的存在，ScreenToGrid(GridToScreen(x, y)) 只对整数输入恒等；
// 小数屏幕坐标映射到包含该点的格子。这种不对称是刻意设计：
// 一次屏幕点击必须解析到唯一的格子。
package utils

import (
	"math"

	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

// GridToScreen 将网格坐标投影为屏幕坐标
// 纯函数，对任意整数输入都有定义，无失败模式
func GridToScreen(gridX, gridY int) (screenX, screenY float64) {
	screenX = float64(gridX-gridY)*(config.TileWidth/2) + config.OriginX
	screenY = float64(gridX+gridY)*(config.TileHeight/2) + config.OriginY
	return screenX, screenY
}

// CellToScreen 是 GridToScreen 的 GridCell 便捷形式
func CellToScreen(cell types.GridCell) (screenX, screenY float64) {
	return GridToScreen(cell.X, cell.Y)
}

// ScreenToGrid 将屏幕坐标解析为网格坐标
// 先做投影的精确代数逆变换，再向下取整到格子
// 返回的格子可能落在网格范围之外，调用者负责用 config.IsInsideGrid 校验
func ScreenToGrid(screenX, screenY float64) (gridX, gridY int) {
	// a = x - y, b = x + y
	a := (screenX - config.OriginX) / (config.TileWidth / 2)
	b := (screenY - config.OriginY) / (config.TileHeight / 2)
	gridX = int(math.Floor((a + b) / 2))
	gridY = int(math.Floor((b - a) / 2))
	return gridX, gridY
}

// Manhattan 返回两个格子之间的曼哈顿距离 |ax-bx| + |ay-by|
// 既是通用距离度量，也是寻路的启发函数
// 四连通、每步代价恒为 1 的前提下，该启发函数是可采纳且一致的
func Manhattan(a, b types.GridCell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DepthKey 返回格子的绘制深度键
// 深度键在 gridX+gridY 上单调递增，仅用于从后向前的绘制排序，
// 不携带任何导航语义。zOffset 用于微调同格子内多个可绘制对象的层级
func DepthKey(gridX, gridY int, zOffset float64) float64 {
	return float64(gridX+gridY)*(config.TileHeight/2) + zOffset
}
