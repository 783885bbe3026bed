package components

import "github.com/silverdavi/rheal-lab/pkg/ecs"

// WorldGridComponent 园区网格的占用状态
// 用于跟踪哪些格子被建筑覆盖区阻挡
//
// Occupancy 按 [y][x] 存储占用者实体ID，0 表示格子可通行。
// 不变量：一个格子被阻挡，当且仅当某个存活建筑的覆盖区覆盖它；
// 越界格子无法存入数组，边界约束由 WorldGridSystem.IsWalkable 负责
type WorldGridComponent struct {
	// Columns 网格列数
	Columns int
	// Rows 网格行数
	Rows int
	// Occupancy 每个格子的占用者 (0 表示空格子)
	Occupancy [][]ecs.EntityID
}

// NewWorldGridComponent 创建指定尺寸的空网格组件
func NewWorldGridComponent(columns, rows int) *WorldGridComponent {
	occ := make([][]ecs.EntityID, rows)
	for y := range occ {
		occ[y] = make([]ecs.EntityID, columns)
	}
	return &WorldGridComponent{
		Columns:   columns,
		Rows:      rows,
		Occupancy: occ,
	}
}
