package scenes

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/silverdavi/rheal-lab/pkg/calc"
	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/entities"
	"github.com/silverdavi/rheal-lab/pkg/game"
	"github.com/silverdavi/rheal-lab/pkg/script"
	"github.com/silverdavi/rheal-lab/pkg/systems"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// dwellSeconds 到站后的停留时长（停留期间代理处于 Busy 状态）
const dwellSeconds = 1.2

// CampusScene 园区主场景
// 管理网格世界、玩家代理与诊疗流程：
// 点击格子走过去，点击建筑走到入口并触发站点交互，
// 交互结束后由流程脚本决定下一站
type CampusScene struct {
	worldPath string
	cfg       *config.WorldConfig

	settingsManager *game.SettingsManager
	saveManager     *game.SaveManager
	gameState       *game.GameState

	entityManager *ecs.EntityManager
	gridSystem    *systems.WorldGridSystem
	pathFinder    *systems.PathFinder
	movement      *systems.MovementSystem
	input         *systems.InputSystem
	render        *systems.RenderSystem

	flow    *script.FlowRuntime
	watcher *config.Watcher

	agentID   ecs.EntityID
	buildings map[string]ecs.EntityID // 建筑ID → 实体

	// 到站停留状态
	dwellLeft     float64
	dwellBuilding string

	statusLine string
}

// NewCampusScene 创建园区场景
// watch 为 true 时监视配置与脚本目录，修改后热重载
func NewCampusScene(worldPath string, settingsManager *game.SettingsManager, saveManager *game.SaveManager, watch bool) (*CampusScene, error) {
	s := &CampusScene{
		worldPath:       worldPath,
		settingsManager: settingsManager,
		saveManager:     saveManager,
		gameState:       game.GetGameState(),
		statusLine:      "点击格子移动，点击建筑开始诊疗流程",
	}

	if err := s.buildWorld(); err != nil {
		return nil, err
	}

	if watch {
		dirs := []string{filepath.Dir(worldPath), filepath.Dir(s.cfg.Flow.Script)}
		watcher, err := config.NewWatcher(dirs...)
		if err != nil {
			// 热重载是调试辅助，失败不阻止场景启动
			log.Printf("[CampusScene] 配置监视器创建失败: %v", err)
		} else {
			s.watcher = watcher
		}
	}

	return s, nil
}

// buildWorld 从世界配置构建全部实体与系统
// 热重载时重复调用：保留代理当前位置（若仍可通行）
func (s *CampusScene) buildWorld() error {
	cfg, err := config.LoadWorldConfig(s.worldPath)
	if err != nil {
		return fmt.Errorf("failed to load world %s: %w", s.worldPath, err)
	}

	em := ecs.NewEntityManager()
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, components.NewWorldGridComponent(cfg.Grid.Columns, cfg.Grid.Rows))
	grid := systems.NewWorldGridSystem(em, gridEntity)

	buildings := make(map[string]ecs.EntityID, len(cfg.Buildings))
	for _, spec := range cfg.Buildings {
		id, err := entities.NewBuildingEntity(em, grid, spec)
		if err != nil {
			return fmt.Errorf("failed to create building: %w", err)
		}
		buildings[spec.ID] = id
	}

	// 代理出生点：优先用存档位置，不可通行时退回配置出生点
	start := types.Cell(cfg.Agent.Start.X, cfg.Agent.Start.Y)
	if x, y, ok := s.saveManager.AgentCell(); ok && grid.IsWalkable(types.Cell(x, y)) {
		start = types.Cell(x, y)
	}
	agentID, err := entities.NewAgentEntity(em, grid, start, cfg.Agent.Speed)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	flow, err := script.NewFlowRuntime(cfg.Flow.Script)
	if err != nil {
		return fmt.Errorf("failed to load flow script: %w", err)
	}

	s.cfg = cfg
	s.entityManager = em
	s.gridSystem = grid
	s.pathFinder = systems.NewPathFinder(grid)
	s.movement = systems.NewMovementSystem(em, s.pathFinder)
	s.input = systems.NewInputSystem(grid, s.onCellClicked)
	s.render = systems.NewRenderSystem(em, grid)
	s.render.ShowGridLines = s.settingsManager.GetSettings().ShowGridLines
	s.flow = flow
	s.agentID = agentID
	s.buildings = buildings
	s.dwellLeft = 0
	s.dwellBuilding = ""
	return nil
}

// onCellClicked 处理格子点击
// 点到建筑覆盖区时改走建筑入口并记录目的地，点到空格子时直接走过去
func (s *CampusScene) onCellClicked(cell types.GridCell) {
	if owner := s.gridSystem.OwnerAt(cell); owner != 0 {
		building, ok := ecs.GetComponent[*components.BuildingComponent](s.entityManager, owner)
		if !ok {
			return
		}
		s.walkToBuilding(building)
		return
	}

	s.gameState.ClearTargetBuilding()
	if !s.movement.RequestMove(s.agentID, cell, s.onArrive) {
		log.Printf("[CampusScene] 无法到达格子 (%d,%d)", cell.X, cell.Y)
		return
	}
	s.render.HighlightCell = &types.GridCell{X: cell.X, Y: cell.Y}
}

// walkToBuilding 让代理走向建筑入口
func (s *CampusScene) walkToBuilding(building *components.BuildingComponent) {
	s.gameState.SetTargetBuilding(building.ID)
	if !s.movement.RequestMove(s.agentID, building.Entry, s.onArrive) {
		log.Printf("[CampusScene] 无法到达建筑 %s 的入口 (%d,%d)",
			building.ID, building.Entry.X, building.Entry.Y)
		s.gameState.ClearTargetBuilding()
		return
	}
	entry := building.Entry
	s.render.HighlightCell = &entry
	s.statusLine = fmt.Sprintf("前往 %s", building.Name)
}

// onArrive 到达回调：到达建筑入口时开始停留交互
func (s *CampusScene) onArrive() {
	s.render.HighlightCell = nil

	target := s.gameState.TargetBuilding
	if target == "" {
		return
	}
	s.gameState.ClearTargetBuilding()

	// 停留期间代理 Busy，不响应新的移动请求
	s.movement.SetBusy(s.agentID, true)
	s.dwellLeft = dwellSeconds
	s.dwellBuilding = target
}

// finishDwell 停留结束：记录到访、执行站点交互、询问流程脚本下一站
func (s *CampusScene) finishDwell() {
	buildingEntity, ok := s.buildings[s.dwellBuilding]
	s.dwellBuilding = ""
	s.movement.SetBusy(s.agentID, false)
	if !ok {
		return
	}
	building, ok := ecs.GetComponent[*components.BuildingComponent](s.entityManager, buildingEntity)
	if !ok {
		return
	}

	station := stationKey(building.Station)
	s.saveManager.RecordVisit(building.ID, station)
	if err := s.saveManager.Save(); err != nil {
		log.Printf("[CampusScene] 存档失败: %v", err)
	}
	s.statusLine = fmt.Sprintf("已到访 %s", building.Name)

	if building.Station == types.StationConsult {
		s.runAssessment()
	}

	next, err := s.flow.NextStation(station, s.saveManager.StationHistory())
	if err != nil {
		log.Printf("[CampusScene] 流程脚本出错: %v", err)
		return
	}
	if next == "" {
		log.Printf("[CampusScene] 诊疗流程结束于 %s", building.ID)
		return
	}
	nextBuilding := s.findBuildingByStation(next)
	if nextBuilding == nil {
		log.Printf("[CampusScene] 流程脚本建议了不存在的站点: %s", next)
		return
	}
	s.walkToBuilding(nextBuilding)
}

// runAssessment 咨询室交互：对当前患者档案执行生育力评估
func (s *CampusScene) runAssessment() {
	results := calc.ComputeProjection(s.gameState.Profile)
	s.gameState.RecordAssessment(results)

	now := results[0]
	s.statusLine = fmt.Sprintf("评估完成: 预计取卵 %d 枚, 首周期活产概率 %d%%",
		now.Eggs[0], now.Births[0].AtLeastOne)
	log.Printf("[CampusScene] 评估结果: eggs=%v livebirth=%d%%",
		now.Eggs, now.Births[0].AtLeastOne)
}

// findBuildingByStation 按站点类型名查找建筑组件
func (s *CampusScene) findBuildingByStation(station string) *components.BuildingComponent {
	for _, id := range s.buildings {
		building, ok := ecs.GetComponent[*components.BuildingComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if stationKey(building.Station) == station {
			return building
		}
	}
	return nil
}

// stationKey 站点类型的脚本/配置键名（小写）
func stationKey(station types.StationType) string {
	return strings.ToLower(station.String())
}

// SetShowGridLines 切换瓦片边线描画
func (s *CampusScene) SetShowGridLines(enabled bool) {
	s.render.ShowGridLines = enabled
}

// Update 场景主循环：输入 → 移动 → 停留计时 → 实体清理
func (s *CampusScene) Update(deltaTime float64) {
	s.drainWatcher()

	s.input.Update()
	s.updateHover()
	s.movement.Update(deltaTime)

	if s.dwellLeft > 0 {
		s.dwellLeft -= deltaTime
		if s.dwellLeft <= 0 {
			s.dwellLeft = 0
			s.finishDwell()
		}
	}

	s.entityManager.RemoveMarkedEntities()
}

// updateHover 把指针位置解析为悬停格子，交给渲染层高亮
func (s *CampusScene) updateHover() {
	px, py := utils.GetPointerPosition()
	gx, gy := utils.ScreenToGrid(float64(px), float64(py))
	cell := types.Cell(gx, gy)
	if !s.gridSystem.InBounds(cell) {
		s.render.HoverCell = nil
		return
	}
	s.render.HoverCell = &cell
}

// drainWatcher 处理配置热重载事件（非阻塞）
func (s *CampusScene) drainWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			log.Printf("[CampusScene] 配置变更: %s, 重新加载世界", path)
			if err := s.buildWorld(); err != nil {
				log.Printf("[CampusScene] 热重载失败: %v", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			log.Printf("[CampusScene] 配置监视器错误: %v", err)
		default:
			return
		}
	}
}

// Draw 绘制场景与状态栏
func (s *CampusScene) Draw(screen *ebiten.Image) {
	s.render.Draw(screen)
	ebitenutil.DebugPrintAt(screen, s.statusLine, 8, 8)

	if walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID); ok {
		info := fmt.Sprintf("cell=(%d,%d) state=%s", walker.Cell.X, walker.Cell.Y, walker.State)
		ebitenutil.DebugPrintAt(screen, info, 8, 24)
	}
}

// SaveOnExit 退出时保存代理位置与到访历史
func (s *CampusScene) SaveOnExit() bool {
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}

	if walker, ok := ecs.GetComponent[*components.WalkerComponent](s.entityManager, s.agentID); ok {
		s.saveManager.SetAgentCell(walker.Cell.X, walker.Cell.Y)
	}
	if err := s.saveManager.Save(); err != nil {
		log.Printf("[CampusScene] 退出存档失败: %v", err)
		return false
	}
	return true
}
