package components

import "github.com/silverdavi/rheal-lab/pkg/types"

// WalkerComponent 可移动代理的运动控制状态
//
// 路径是独占所有权的单槽状态：RequestMove 成功时整体替换，
// 永远不做部分修改；走完或被替换后即失效，不可重放。
//
// 不变量：
//   - State == Idle 时 Path 为 nil，Cursor 为 0
//   - State == Walking 时 0 <= Cursor < len(Path)
//   - Cell 始终是代理最后对齐到的逻辑格子；
//     渲染位置在两个格子之间时 Cell 不变
type WalkerComponent struct {
	// State 当前运动状态
	State types.MotionState
	// Cell 当前逻辑格子
	Cell types.GridCell
	// Path 当前路径：从出发格子之后的第一步到目标格子（不含出发格子）
	Path []types.GridCell
	// Cursor 指向 Path 中正在走向的路径点
	Cursor int
	// Speed 行走速度（像素/秒，屏幕空间直线速度）
	Speed float64
	// Facing 当前朝向，每帧根据路径点方位重新推导
	Facing types.Direction
	// OnArrive 到达回调；路径耗尽时恰好调用一次，之后清空
	OnArrive func()
}
