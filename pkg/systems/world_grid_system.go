package systems

import (
	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

// WorldGridSystem 管理园区网格的占用状态
// 负责跟踪哪些格子被建筑阻挡，并向寻路层提供可通行性查询
//
// 写入方只有建筑的创建与销毁（pkg/entities 的建筑工厂）；
// PathFinder 只读；MovementSystem 完全不接触本系统。
// 占用变更假定只发生在帧与帧之间（建筑放置/移除时机），
// 不会与一次进行中的寻路并发
type WorldGridSystem struct {
	entityManager *ecs.EntityManager
	gridEntity    ecs.EntityID
}

// NewWorldGridSystem 创建园区网格系统
// 参数:
//   - em: EntityManager 实例
//   - gridEntity: 持有 WorldGridComponent 的网格实体ID
func NewWorldGridSystem(em *ecs.EntityManager, gridEntity ecs.EntityID) *WorldGridSystem {
	return &WorldGridSystem{
		entityManager: em,
		gridEntity:    gridEntity,
	}
}

// grid 取出网格组件，取不到时返回 nil
func (s *WorldGridSystem) grid() *components.WorldGridComponent {
	grid, ok := ecs.GetComponent[*components.WorldGridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return nil
	}
	return grid
}

// Columns 返回网格列数
func (s *WorldGridSystem) Columns() int {
	if g := s.grid(); g != nil {
		return g.Columns
	}
	return 0
}

// Rows 返回网格行数
func (s *WorldGridSystem) Rows() int {
	if g := s.grid(); g != nil {
		return g.Rows
	}
	return 0
}

// InBounds 检查格子是否落在网格范围内
func (s *WorldGridSystem) InBounds(cell types.GridCell) bool {
	g := s.grid()
	return g != nil &&
		cell.X >= 0 && cell.X < g.Columns &&
		cell.Y >= 0 && cell.Y < g.Rows
}

// IsWalkable 检查格子是否可通行
// 越界格子或被占用的格子不可通行；没有其他失败模式
func (s *WorldGridSystem) IsWalkable(cell types.GridCell) bool {
	g := s.grid()
	if g == nil ||
		cell.X < 0 || cell.X >= g.Columns ||
		cell.Y < 0 || cell.Y >= g.Rows {
		return false
	}
	return g.Occupancy[cell.Y][cell.X] == 0
}

// OwnerAt 返回占用格子的建筑实体ID，空格子或越界返回 0
func (s *WorldGridSystem) OwnerAt(cell types.GridCell) ecs.EntityID {
	if !s.InBounds(cell) {
		return 0
	}
	return s.grid().Occupancy[cell.Y][cell.X]
}

// OccupyCell 标记格子为被占用状态
// 幂等：重复占用只是覆盖占用者；越界静默忽略（边界由 IsWalkable 兜底）
func (s *WorldGridSystem) OccupyCell(cell types.GridCell, owner ecs.EntityID) {
	if !s.InBounds(cell) {
		return
	}
	s.grid().Occupancy[cell.Y][cell.X] = owner
}

// ReleaseCell 清空格子的占用状态
// 幂等：释放已空的格子是无操作，不会影响其他格子
func (s *WorldGridSystem) ReleaseCell(cell types.GridCell) {
	if !s.InBounds(cell) {
		return
	}
	s.grid().Occupancy[cell.Y][cell.X] = 0
}

// OccupyFootprint 登记矩形覆盖区的全部格子
// 建筑创建时调用，必须与 ReleaseFootprint 严格成对
func (s *WorldGridSystem) OccupyFootprint(origin types.GridCell, width, height int, owner ecs.EntityID) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			s.OccupyCell(types.Cell(origin.X+dx, origin.Y+dy), owner)
		}
	}
}

// ReleaseFootprint 解除矩形覆盖区全部格子的占用
func (s *WorldGridSystem) ReleaseFootprint(origin types.GridCell, width, height int) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			s.ReleaseCell(types.Cell(origin.X+dx, origin.Y+dy))
		}
	}
}
