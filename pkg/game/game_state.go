package game

import (
	"github.com/silverdavi/rheal-lab/pkg/calc"
)

// GameState 全局游戏状态
// 持有跨系统共享的会话数据：患者档案、最近一次评估结果、
// 以及代理当前的目的地建筑
type GameState struct {
	// Profile 当前患者档案（咨询室评估的输入）
	Profile calc.Input
	// LastAssessment 最近一次咨询室评估的外推结果，nil 表示尚未评估
	LastAssessment []*calc.Results
	// TargetBuilding 代理正在走向的建筑ID，空串表示自由移动
	TargetBuilding string
}

var globalGameState *GameState

// GetGameState 获取全局游戏状态单例
func GetGameState() *GameState {
	if globalGameState == nil {
		globalGameState = &GameState{
			Profile: calc.Input{
				Age: 34,
				Amh: calc.NormalAmh(34),
				Bmi: 22,
			},
		}
	}
	return globalGameState
}

// ResetGameState 重置全局游戏状态（测试与重开一局时使用）
func ResetGameState() {
	globalGameState = nil
}

// SetTargetBuilding 记录代理正在走向的建筑
func (gs *GameState) SetTargetBuilding(id string) {
	gs.TargetBuilding = id
}

// ClearTargetBuilding 清除目的地建筑
func (gs *GameState) ClearTargetBuilding() {
	gs.TargetBuilding = ""
}

// RecordAssessment 记录最近一次评估结果
func (gs *GameState) RecordAssessment(results []*calc.Results) {
	gs.LastAssessment = results
}
