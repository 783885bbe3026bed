package components

import "github.com/silverdavi/rheal-lab/pkg/types"

// BuildingComponent 静态建筑
//
// 每个建筑恰好拥有一个矩形覆盖区（Origin 左上角，Width×Height 格），
// 覆盖区与建筑实体生命周期严格 1:1：
// 创建时一次性登记为障碍，销毁时一次性解除，从不共享、从不部分登记。
type BuildingComponent struct {
	// ID 建筑在世界配置中的标识，如 "reception"
	ID string
	// Name 显示名称
	Name string
	// Station 站点类型，决定到达后的诊疗交互
	Station types.StationType
	// Origin 覆盖区左上角格子
	Origin types.GridCell
	// Width 覆盖区宽度（格子数）
	Width int
	// Height 覆盖区高度（格子数）
	Height int
	// Entry 入口格子（覆盖区之外），点击建筑时代理走向这里
	Entry types.GridCell
}

// Covers 检查格子是否落在建筑覆盖区内
func (b *BuildingComponent) Covers(cell types.GridCell) bool {
	return cell.X >= b.Origin.X && cell.X < b.Origin.X+b.Width &&
		cell.Y >= b.Origin.Y && cell.Y < b.Origin.Y+b.Height
}
