package types

// MotionState 定义可移动代理的运动状态机
//
// 状态转换规则：
//   - Idle  —RequestMove→ Walking —（路径耗尽）→ Idle
//   - Idle|Walking —SetBusy(true)→ Busy —SetBusy(false)→ Idle
//
// Busy 状态下拒绝一切移动请求（例如剧情演出期间）
type MotionState int

const (
	// MotionIdle 空闲：没有路径，可以接受新的移动请求
	MotionIdle MotionState = iota
	// MotionWalking 行走中：持有路径和游标，渲染位置尚未对齐到下一个路径点
	MotionWalking
	// MotionBusy 忙碌：被显式禁用寻路，无论是否持有路径
	MotionBusy
)

// String 返回运动状态的字符串表示
func (m MotionState) String() string {
	switch m {
	case MotionIdle:
		return "Idle"
	case MotionWalking:
		return "Walking"
	case MotionBusy:
		return "Busy"
	default:
		return "Unknown"
	}
}
