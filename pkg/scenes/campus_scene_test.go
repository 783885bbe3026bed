package scenes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/game"
	"github.com/silverdavi/rheal-lab/pkg/types"
)

const testWorldYAML = `
id: test-campus
grid:
  columns: 20
  rows: 20
agent:
  start: { x: 2, y: 16 }
  speed: 180
flow:
  script: %SCRIPT%
buildings:
  - id: reception
    station: reception
    name: Reception
    origin: { x: 7, y: 2 }
    width: 3
    height: 2
    entry: { x: 8, y: 4 }
  - id: lab
    station: lab
    name: Lab
    origin: { x: 3, y: 7 }
    width: 2
    height: 3
    entry: { x: 5, y: 8 }
  - id: consult
    station: consult
    name: Consult
    origin: { x: 13, y: 5 }
    width: 2
    height: 2
    entry: { x: 12, y: 6 }
  - id: cryo
    station: cryo
    name: Cryo
    origin: { x: 10, y: 12 }
    width: 3
    height: 2
    entry: { x: 11, y: 14 }
`

const testFlowTengo = `
visits := func(history, station) {
	n := 0
	for h in history {
		if h == station {
			n += 1
		}
	}
	return n
}

next_station := func(station, history) {
	if station == "reception" {
		return "lab"
	}
	if station == "lab" {
		return "consult"
	}
	if station == "consult" {
		if visits(history, "lab") == 0 {
			return "lab"
		}
		return "cryo"
	}
	return ""
}
`

// newTestScene 用临时世界配置与流程脚本创建场景
func newTestScene(t *testing.T) *CampusScene {
	t.Helper()
	game.ResetGameState()
	t.Cleanup(game.ResetGameState)

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "flow.tengo")
	if err := os.WriteFile(scriptPath, []byte(testFlowTengo), 0644); err != nil {
		t.Fatal(err)
	}
	worldPath := filepath.Join(dir, "world.yaml")
	yaml := strings.Replace(testWorldYAML, "%SCRIPT%", scriptPath, 1)
	if err := os.WriteFile(worldPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := game.NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager failed: %v", err)
	}
	saves, err := game.NewSaveManager(filepath.Join(dir, "saves"))
	if err != nil {
		t.Fatalf("NewSaveManager failed: %v", err)
	}

	scene, err := NewCampusScene(worldPath, settings, saves, false)
	if err != nil {
		t.Fatalf("NewCampusScene failed: %v", err)
	}
	return scene
}

// tick 推进场景若干帧（dt=1 秒，足以每帧对齐一个路径点）
func tick(s *CampusScene, frames int) {
	for i := 0; i < frames; i++ {
		s.movement.Update(1.0)
		if s.dwellLeft > 0 {
			s.dwellLeft -= 1.0
			if s.dwellLeft <= 0 {
				s.dwellLeft = 0
				s.finishDwell()
			}
		}
		s.entityManager.RemoveMarkedEntities()
	}
}

// TestCampusSceneBuild 测试场景构建：建筑阻挡、代理出生点
func TestCampusSceneBuild(t *testing.T) {
	s := newTestScene(t)

	if len(s.buildings) != 4 {
		t.Fatalf("buildings = %d, want 4", len(s.buildings))
	}
	if s.gridSystem.IsWalkable(types.Cell(8, 3)) {
		t.Error("reception footprint should be blocked")
	}

	walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID)
	if !ok {
		t.Fatal("agent missing walker component")
	}
	if walker.Cell != types.Cell(2, 16) {
		t.Errorf("agent start = %v, want (2,16)", walker.Cell)
	}
	if walker.State != types.MotionIdle {
		t.Errorf("agent state = %v, want Idle", walker.State)
	}
}

// TestCampusSceneWalkToCell 测试点击空格子直接走过去
func TestCampusSceneWalkToCell(t *testing.T) {
	s := newTestScene(t)

	s.onCellClicked(types.Cell(6, 16))
	walker, _ := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID)
	if walker.State != types.MotionWalking {
		t.Fatalf("state after click = %v, want Walking", walker.State)
	}
	if s.render.HighlightCell == nil || *s.render.HighlightCell != types.Cell(6, 16) {
		t.Error("clicked cell should be highlighted")
	}

	tick(s, 10)
	if walker.Cell != types.Cell(6, 16) {
		t.Errorf("agent cell = %v, want (6,16)", walker.Cell)
	}
	if walker.State != types.MotionIdle {
		t.Errorf("state after arrival = %v, want Idle", walker.State)
	}
	if s.render.HighlightCell != nil {
		t.Error("highlight should be cleared after arrival")
	}
	// 点空格子不产生到访记录
	if len(s.saveManager.StationHistory()) != 0 {
		t.Errorf("history = %v, want empty", s.saveManager.StationHistory())
	}
}

// TestCampusSceneBuildingClickRedirectsToEntry 测试点击建筑覆盖区改走入口
func TestCampusSceneBuildingClickRedirectsToEntry(t *testing.T) {
	s := newTestScene(t)

	// 点到接待处覆盖区中央
	s.onCellClicked(types.Cell(8, 3))
	walker, _ := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID)
	if walker.State != types.MotionWalking {
		t.Fatalf("state after building click = %v, want Walking", walker.State)
	}
	if s.gameState.TargetBuilding != "reception" {
		t.Errorf("target building = %q, want reception", s.gameState.TargetBuilding)
	}
	if *s.render.HighlightCell != types.Cell(8, 4) {
		t.Errorf("highlight = %v, want entry (8,4)", *s.render.HighlightCell)
	}
}

// TestCampusSceneTreatmentFlow 测试完整诊疗流程：
// 点击接待处后代理自动途径 接待 -> 化验 -> 咨询 -> 冷冻，
// 咨询站产生评估结果，流程在冷冻库结束
func TestCampusSceneTreatmentFlow(t *testing.T) {
	s := newTestScene(t)

	s.onCellClicked(types.Cell(8, 3)) // reception
	tick(s, 300)

	walker, _ := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID)
	if walker.State != types.MotionIdle {
		t.Fatalf("flow should settle in Idle, got %v", walker.State)
	}

	history := s.saveManager.StationHistory()
	want := []string{"reception", "lab", "consult", "cryo"}
	if len(history) != len(want) {
		t.Fatalf("history = %v, want %v", history, want)
	}
	for i := range want {
		if history[i] != want[i] {
			t.Fatalf("history = %v, want %v", history, want)
		}
	}

	// 流程结束于冷冻库入口
	if walker.Cell != types.Cell(11, 14) {
		t.Errorf("final cell = %v, want cryo entry (11,14)", walker.Cell)
	}

	// 咨询站应产生评估结果
	if s.gameState.LastAssessment == nil {
		t.Fatal("consult visit should record an assessment")
	}
	if len(s.gameState.LastAssessment) == 0 || s.gameState.LastAssessment[0].Eggs[0] <= 0 {
		t.Error("assessment should predict a positive egg count")
	}
}

// TestCampusSceneDwellBlocksRequests 测试停留期间代理 Busy、拒绝移动请求
func TestCampusSceneDwellBlocksRequests(t *testing.T) {
	s := newTestScene(t)

	s.onCellClicked(types.Cell(8, 3))
	// 走到入口为止（不推进停留计时）
	walker, _ := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID)
	for i := 0; i < 100 && walker.State == types.MotionWalking; i++ {
		s.movement.Update(1.0)
	}
	if s.dwellLeft <= 0 {
		t.Fatal("dwell should start after arriving at the entry")
	}
	if walker.State != types.MotionBusy {
		t.Fatalf("state during dwell = %v, want Busy", walker.State)
	}
	if s.movement.RequestMove(s.agentID, types.Cell(1, 1), nil) {
		t.Error("RequestMove during dwell should be rejected")
	}
}

// TestCampusSceneSaveOnExit 测试退出时保存代理位置
func TestCampusSceneSaveOnExit(t *testing.T) {
	s := newTestScene(t)

	s.onCellClicked(types.Cell(6, 16))
	tick(s, 10)

	if !s.SaveOnExit() {
		t.Fatal("SaveOnExit failed")
	}
	x, y, ok := s.saveManager.AgentCell()
	if !ok || x != 6 || y != 16 {
		t.Errorf("saved agent cell = (%d,%d,%v), want (6,16,true)", x, y, ok)
	}
}
