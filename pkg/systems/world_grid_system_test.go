package systems

import (
	"testing"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

// newTestGrid 创建一个 20x20 的测试网格
func newTestGrid(t *testing.T) (*ecs.EntityManager, *WorldGridSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, components.NewWorldGridComponent(20, 20))
	return em, NewWorldGridSystem(em, gridEntity)
}

// TestIsWalkableBounds 测试越界格子不可通行
func TestIsWalkableBounds(t *testing.T) {
	_, grid := newTestGrid(t)

	tests := []struct {
		cell types.GridCell
		want bool
	}{
		{types.Cell(0, 0), true},
		{types.Cell(19, 19), true},
		{types.Cell(-1, 0), false},
		{types.Cell(0, -1), false},
		{types.Cell(20, 0), false},
		{types.Cell(0, 20), false},
	}
	for _, tt := range tests {
		if got := grid.IsWalkable(tt.cell); got != tt.want {
			t.Errorf("IsWalkable(%v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

// TestOccupyReleaseIdempotent 测试占用与释放的幂等性
func TestOccupyReleaseIdempotent(t *testing.T) {
	em, grid := newTestGrid(t)
	owner := em.CreateEntity()
	cell := types.Cell(5, 5)

	// 重复占用：格子保持不可通行
	grid.OccupyCell(cell, owner)
	grid.OccupyCell(cell, owner)
	if grid.IsWalkable(cell) {
		t.Error("cell should be blocked after double OccupyCell")
	}

	// 重复释放：不改变其他格子，自己保持可通行
	other := types.Cell(5, 6)
	grid.OccupyCell(other, owner)
	grid.ReleaseCell(cell)
	grid.ReleaseCell(cell)
	if !grid.IsWalkable(cell) {
		t.Error("cell should be walkable after ReleaseCell")
	}
	if grid.IsWalkable(other) {
		t.Error("releasing one cell must not affect a different cell")
	}
}

// TestOccupyOutOfBounds 测试越界占用是无操作
func TestOccupyOutOfBounds(t *testing.T) {
	em, grid := newTestGrid(t)
	owner := em.CreateEntity()

	grid.OccupyCell(types.Cell(-3, 40), owner)
	grid.ReleaseCell(types.Cell(-3, 40))

	// 网格内部不受影响
	if !grid.IsWalkable(types.Cell(0, 0)) {
		t.Error("in-grid cells must be unaffected by out-of-bounds mutation")
	}
}

// TestFootprintOccupancy 测试矩形覆盖区的整体登记与解除
func TestFootprintOccupancy(t *testing.T) {
	em, grid := newTestGrid(t)
	owner := em.CreateEntity()

	origin := types.Cell(7, 2)
	grid.OccupyFootprint(origin, 3, 2, owner)

	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 3; dx++ {
			cell := types.Cell(7+dx, 2+dy)
			if grid.IsWalkable(cell) {
				t.Errorf("footprint cell %v should be blocked", cell)
			}
			if grid.OwnerAt(cell) != owner {
				t.Errorf("OwnerAt(%v) = %d, want %d", cell, grid.OwnerAt(cell), owner)
			}
		}
	}

	// 覆盖区外的格子不受影响
	if !grid.IsWalkable(types.Cell(7, 1)) || !grid.IsWalkable(types.Cell(10, 2)) {
		t.Error("cells outside the footprint must stay walkable")
	}

	grid.ReleaseFootprint(origin, 3, 2)
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 3; dx++ {
			cell := types.Cell(7+dx, 2+dy)
			if !grid.IsWalkable(cell) {
				t.Errorf("footprint cell %v should be walkable after release", cell)
			}
		}
	}
}
