package config

// 布局配置常量
// 本文件定义了园区场景的等距网格布局参数与窗口尺寸

// 等距网格配置 (Isometric Grid Configuration)
// 网格坐标使用整数格子 (x, y)，投影到屏幕坐标时使用菱形瓦片
// 投影公式（网格坐标 → 屏幕坐标）：
//
//	screenX = (x - y) * TileWidth/2 + OriginX
//	screenY = (x + y) * TileHeight/2 + OriginY
//
// 屏幕坐标是浮点数；代理行走时的渲染位置允许落在格子之间
const (
	// GameWindowWidth 游戏窗口逻辑宽度（像素）
	GameWindowWidth = 960

	// GameWindowHeight 游戏窗口逻辑高度（像素）
	GameWindowHeight = 640

	// GridColumns 网格列数（X 轴方向格子数）
	GridColumns = 20

	// GridRows 网格行数（Y 轴方向格子数）
	GridRows = 20

	// TileWidth 单个菱形瓦片的屏幕宽度（像素）
	TileWidth = 64.0

	// TileHeight 单个菱形瓦片的屏幕高度（像素）
	// 宽高比 2:1 是经典等距投影比例
	TileHeight = 32.0

	// OriginX 网格原点 (0,0) 投影后的屏幕 X 坐标
	// 取窗口水平中心，让菱形地图左右对称
	OriginX = 480.0

	// OriginY 网格原点 (0,0) 投影后的屏幕 Y 坐标
	OriginY = 96.0

	// DefaultWalkSpeed 代理默认行走速度（像素/秒，沿屏幕空间直线测量）
	DefaultWalkSpeed = 180.0
)

// IsInsideGrid 检查格子坐标是否落在 [0,GridColumns)×[0,GridRows) 范围内
// 点击解析和建筑放置代码必须先调用本函数再把坐标交给寻路层
func IsInsideGrid(x, y int) bool {
	return x >= 0 && x < GridColumns && y >= 0 && y < GridRows
}
