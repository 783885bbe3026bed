package systems

import (
	"log"
	"math"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// MovementSystem 驱动所有行走代理沿已计算路径逐帧前进
//
// 整个子系统是单线程、协作式、帧驱动的：外部驱动器每帧对本系统
// 调用一次 Update(deltaTime)。寻路是同步的，在 RequestMove 内部
// 跑完，不存在进行中的搜索，因此也没有取消原语。
type MovementSystem struct {
	entityManager *ecs.EntityManager
	pathFinder    *PathFinder
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, pf *PathFinder) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		pathFinder:    pf,
	}
}

// RequestMove 请求代理移动到目标格子
//
// 返回 false 的情形一律无副作用：
//   - 代理处于 Busy 状态
//   - 目标不可通行或不连通（寻路返回空路径）
//   - 实体缺少行走组件
//
// 成功时整体替换当前路径（不排队）、游标归零、进入 Walking 状态，
// 并记录可选的到达回调
func (s *MovementSystem) RequestMove(id ecs.EntityID, goal types.GridCell, onArrive func()) bool {
	walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, id)
	if !ok {
		return false
	}
	if walker.State == types.MotionBusy {
		return false
	}

	path := s.pathFinder.FindPath(walker.Cell, goal)
	if len(path) == 0 {
		return false
	}

	walker.Path = path
	walker.Cursor = 0
	walker.State = types.MotionWalking
	walker.OnArrive = onArrive
	return true
}

// Stop 立即停止代理：清空路径与游标，强制回到 Idle
// 不触发到达回调
func (s *MovementSystem) Stop(id ecs.EntityID) {
	walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, id)
	if !ok {
		return
	}
	walker.Path = nil
	walker.Cursor = 0
	walker.OnArrive = nil
	walker.State = types.MotionIdle
}

// SetBusy 切换代理的忙碌状态（剧情演出期间禁用寻路）
// 进入 Busy 保留现有路径但停止行走；退出 Busy 一律回到 Idle，
// 残留路径被丢弃（Idle 状态不持有路径），不触发到达回调
func (s *MovementSystem) SetBusy(id ecs.EntityID, busy bool) {
	walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, id)
	if !ok {
		return
	}
	if busy {
		walker.State = types.MotionBusy
		return
	}
	if walker.State == types.MotionBusy {
		walker.State = types.MotionIdle
		walker.Path = nil
		walker.Cursor = 0
		walker.OnArrive = nil
	}
}

// Update 推进所有 Walking 状态的代理
// 参数 deltaTime 单位为秒
//
// 每帧针对当前路径点：
//   - 剩余距离 > speed*dt：渲染位置沿方向向量前进 speed*dt，逻辑格子不变
//   - 剩余距离 ≤ speed*dt：渲染位置精确对齐路径点（绝不过冲），
//     逻辑格子更新为路径点，游标前进；一帧最多对齐一个路径点
//
// 路径耗尽时先转入 Idle 并清空路径，然后恰好触发一次到达回调——
// 顺序必须如此，回调里可以安全地发起新的 RequestMove
func (s *MovementSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[
		*components.WalkerComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range entities {
		walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, id)
		if !ok || walker.State != types.MotionWalking {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if walker.Cursor >= len(walker.Path) {
			// 不应出现：Walking 状态必须持有未走完的路径
			log.Printf("[Movement] entity %d walking with exhausted path, forcing idle", id)
			walker.State = types.MotionIdle
			walker.Path = nil
			walker.Cursor = 0
			continue
		}

		waypoint := walker.Path[walker.Cursor]
		walker.Facing = types.DirectionTo(walker.Cell, waypoint)

		targetX, targetY := utils.CellToScreen(waypoint)
		dx := targetX - pos.X
		dy := targetY - pos.Y
		dist := math.Hypot(dx, dy)
		step := walker.Speed * deltaTime

		if dist > step {
			// 尚未到达：沿方向向量前进受限位移
			pos.X += dx / dist * step
			pos.Y += dy / dist * step
			continue
		}

		// 到达路径点：逻辑格子与渲染位置精确对齐，游标前进
		pos.X = targetX
		pos.Y = targetY
		walker.Cell = waypoint
		walker.Cursor++

		if walker.Cursor < len(walker.Path) {
			continue
		}

		// 路径耗尽：先完成状态迁移，再触发回调
		walker.State = types.MotionIdle
		walker.Path = nil
		walker.Cursor = 0
		onArrive := walker.OnArrive
		walker.OnArrive = nil
		if onArrive != nil {
			onArrive()
		}
	}
}
