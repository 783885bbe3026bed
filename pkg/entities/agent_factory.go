package entities

import (
	"fmt"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/systems"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// NewAgentEntity 创建玩家代理实体
// 代理出生在指定格子，处于 Idle 状态，渲染位置对齐格子投影点
//
// 参数:
//   - em: 实体管理器
//   - grid: 网格系统（用于校验出生格子可通行）
//   - start: 出生格子
//   - speed: 行走速度（像素/秒）
//
// 返回:
//   - ecs.EntityID: 创建的代理实体ID，失败时返回 0
//   - error: 出生格子越界或被阻挡时返回错误
func NewAgentEntity(em *ecs.EntityManager, grid *systems.WorldGridSystem, start types.GridCell, speed float64) (ecs.EntityID, error) {
	if !grid.IsWalkable(start) {
		return 0, fmt.Errorf("agent start cell (%d,%d) is not walkable", start.X, start.Y)
	}
	if speed <= 0 {
		return 0, fmt.Errorf("agent speed must be positive, got %v", speed)
	}

	entityID := em.CreateEntity()

	x, y := utils.CellToScreen(start)
	em.AddComponent(entityID, &components.PositionComponent{
		X: x,
		Y: y,
	})

	em.AddComponent(entityID, &components.WalkerComponent{
		State:  types.MotionIdle,
		Cell:   start,
		Speed:  speed,
		Facing: types.DirSouth,
	})

	return entityID, nil
}
