package types

// Direction 定义代理的朝向（沿网格轴）
// 朝向只用于渲染选择，不携带任何寻路语义
type Direction int

const (
	// DirSouth 朝向 +Y 方向
	DirSouth Direction = iota
	// DirNorth 朝向 -Y 方向
	DirNorth
	// DirEast 朝向 +X 方向
	DirEast
	// DirWest 朝向 -X 方向
	DirWest
)

// String 返回朝向的字符串表示
func (d Direction) String() string {
	switch d {
	case DirSouth:
		return "South"
	case DirNorth:
		return "North"
	case DirEast:
		return "East"
	case DirWest:
		return "West"
	default:
		return "Unknown"
	}
}

// DirectionTo 根据格子位移推导朝向
// 规则：取位移绝对值更大的轴；两轴相等时水平轴优先
func DirectionTo(from, to GridCell) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	if adx >= ady {
		if dx < 0 {
			return DirWest
		}
		return DirEast
	}
	if dy < 0 {
		return DirNorth
	}
	return DirSouth
}
