package entities

import (
	"testing"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/systems"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

func newTestWorld(t *testing.T) (*ecs.EntityManager, *systems.WorldGridSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, components.NewWorldGridComponent(20, 20))
	return em, systems.NewWorldGridSystem(em, gridEntity)
}

func receptionSpec() config.BuildingSpec {
	return config.BuildingSpec{
		ID:      "reception",
		Station: "reception",
		Name:    "接待处",
		Origin:  config.CellSpec{X: 7, Y: 2},
		Width:   3,
		Height:  2,
		Entry:   config.CellSpec{X: 8, Y: 4},
	}
}

// TestNewBuildingEntityOccupiesFootprint 测试建筑创建后覆盖区整体被阻挡
func TestNewBuildingEntityOccupiesFootprint(t *testing.T) {
	em, grid := newTestWorld(t)

	id, err := NewBuildingEntity(em, grid, receptionSpec())
	if err != nil {
		t.Fatalf("NewBuildingEntity failed: %v", err)
	}

	for y := 2; y < 4; y++ {
		for x := 7; x < 10; x++ {
			cell := types.Cell(x, y)
			if grid.IsWalkable(cell) {
				t.Errorf("footprint cell %v should be blocked", cell)
			}
			if owner := grid.OwnerAt(cell); owner != id {
				t.Errorf("OwnerAt(%v) = %d, want %d", cell, owner, id)
			}
		}
	}
	// 覆盖区外不受影响
	if !grid.IsWalkable(types.Cell(6, 2)) || !grid.IsWalkable(types.Cell(8, 4)) {
		t.Error("cells outside the footprint must stay walkable")
	}

	building, ok := ecs.GetComponent[*components.BuildingComponent](em, id)
	if !ok {
		t.Fatal("created entity missing BuildingComponent")
	}
	if building.Station != types.StationReception {
		t.Errorf("station = %v, want Reception", building.Station)
	}
	if building.Entry != types.Cell(8, 4) {
		t.Errorf("entry = %v, want (8,4)", building.Entry)
	}
}

// TestNewBuildingEntityValidation 测试校验失败时不创建实体、不登记格子
func TestNewBuildingEntityValidation(t *testing.T) {
	em, grid := newTestWorld(t)

	tests := []struct {
		name string
		spec config.BuildingSpec
	}{
		{
			name: "footprint out of bounds",
			spec: config.BuildingSpec{
				ID: "lab", Station: "lab",
				Origin: config.CellSpec{X: 18, Y: 18}, Width: 3, Height: 3,
				Entry: config.CellSpec{X: 17, Y: 18},
			},
		},
		{
			name: "entry out of bounds",
			spec: config.BuildingSpec{
				ID: "lab", Station: "lab",
				Origin: config.CellSpec{X: 0, Y: 0}, Width: 2, Height: 2,
				Entry: config.CellSpec{X: -1, Y: 0},
			},
		},
		{
			name: "unknown station",
			spec: config.BuildingSpec{
				ID: "mystery", Station: "casino",
				Origin: config.CellSpec{X: 1, Y: 1}, Width: 1, Height: 1,
				Entry: config.CellSpec{X: 1, Y: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewBuildingEntity(em, grid, tt.spec)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if id != 0 {
				t.Errorf("failed creation returned entity %d, want 0", id)
			}
		})
	}

	// 失败的创建不得留下任何阻挡格子
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if !grid.IsWalkable(types.Cell(x, y)) {
				t.Fatalf("cell (%d,%d) blocked after failed creations", x, y)
			}
		}
	}
}

// TestNewBuildingEntityRejectsOverlap 测试覆盖区重叠时创建失败
func TestNewBuildingEntityRejectsOverlap(t *testing.T) {
	em, grid := newTestWorld(t)

	if _, err := NewBuildingEntity(em, grid, receptionSpec()); err != nil {
		t.Fatalf("first building failed: %v", err)
	}

	overlap := config.BuildingSpec{
		ID: "lab", Station: "lab",
		Origin: config.CellSpec{X: 9, Y: 3}, Width: 2, Height: 2,
		Entry: config.CellSpec{X: 9, Y: 5},
	}
	if _, err := NewBuildingEntity(em, grid, overlap); err == nil {
		t.Error("overlapping footprint should be rejected")
	}
	// 重叠建筑的失败不得动到既有建筑的格子
	if grid.IsWalkable(types.Cell(9, 3)) {
		t.Error("existing building cell must stay blocked")
	}
	if !grid.IsWalkable(types.Cell(10, 4)) {
		t.Error("rejected building must not block any cell")
	}
}

// TestRemoveBuildingEntityReleasesFootprint 测试拆除建筑后覆盖区恢复可通行
func TestRemoveBuildingEntityReleasesFootprint(t *testing.T) {
	em, grid := newTestWorld(t)

	id, err := NewBuildingEntity(em, grid, receptionSpec())
	if err != nil {
		t.Fatalf("NewBuildingEntity failed: %v", err)
	}

	RemoveBuildingEntity(em, grid, id)
	em.RemoveMarkedEntities()

	for y := 2; y < 4; y++ {
		for x := 7; x < 10; x++ {
			if !grid.IsWalkable(types.Cell(x, y)) {
				t.Errorf("cell (%d,%d) should be walkable after removal", x, y)
			}
		}
	}
	if _, ok := ecs.GetComponent[*components.BuildingComponent](em, id); ok {
		t.Error("building component should be gone after removal")
	}

	// 拆除后原地可以重建
	if _, err := NewBuildingEntity(em, grid, receptionSpec()); err != nil {
		t.Errorf("rebuilding on released footprint failed: %v", err)
	}
}
