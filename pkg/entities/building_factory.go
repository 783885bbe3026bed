package entities

import (
	"fmt"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/systems"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

// NewBuildingEntity 根据建筑配置创建建筑实体
// 创建成功后覆盖区整体登记为障碍，与实体生命周期严格 1:1
//
// 校验失败（越界、覆盖区与已有建筑重叠、入口落在自己覆盖区内）
// 时不创建实体、不登记任何格子
//
// 参数:
//   - em: 实体管理器
//   - grid: 网格系统（登记覆盖区障碍）
//   - spec: 建筑配置
//
// 返回:
//   - ecs.EntityID: 创建的建筑实体ID，失败时返回 0
//   - error: 校验失败的原因
func NewBuildingEntity(em *ecs.EntityManager, grid *systems.WorldGridSystem, spec config.BuildingSpec) (ecs.EntityID, error) {
	station := types.ParseStationType(spec.Station)
	if station == types.StationUnknown {
		return 0, fmt.Errorf("building %s: unknown station type %q", spec.ID, spec.Station)
	}

	origin := types.Cell(spec.Origin.X, spec.Origin.Y)
	for dy := 0; dy < spec.Height; dy++ {
		for dx := 0; dx < spec.Width; dx++ {
			cell := types.Cell(origin.X+dx, origin.Y+dy)
			if !grid.InBounds(cell) {
				return 0, fmt.Errorf("building %s: footprint cell (%d,%d) out of bounds", spec.ID, cell.X, cell.Y)
			}
			if owner := grid.OwnerAt(cell); owner != 0 {
				return 0, fmt.Errorf("building %s: footprint cell (%d,%d) already occupied by entity %d", spec.ID, cell.X, cell.Y, owner)
			}
		}
	}

	entry := types.Cell(spec.Entry.X, spec.Entry.Y)
	if !grid.InBounds(entry) {
		return 0, fmt.Errorf("building %s: entry cell (%d,%d) out of bounds", spec.ID, entry.X, entry.Y)
	}

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.BuildingComponent{
		ID:      spec.ID,
		Name:    spec.Name,
		Station: station,
		Origin:  origin,
		Width:   spec.Width,
		Height:  spec.Height,
		Entry:   entry,
	})

	grid.OccupyFootprint(origin, spec.Width, spec.Height, entityID)

	return entityID, nil
}

// RemoveBuildingEntity 拆除建筑：解除覆盖区障碍并销毁实体
// 对非建筑实体调用为无操作
func RemoveBuildingEntity(em *ecs.EntityManager, grid *systems.WorldGridSystem, id ecs.EntityID) {
	building, ok := ecs.GetComponent[*components.BuildingComponent](em, id)
	if !ok {
		return
	}
	grid.ReleaseFootprint(building.Origin, building.Width, building.Height)
	em.DestroyEntity(id)
}
