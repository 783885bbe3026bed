package game

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// VisitRecord 一次站点到访记录
type VisitRecord struct {
	Building string    `yaml:"building"` // 建筑ID，如 "reception"
	Station  string    `yaml:"station"`  // 站点类型名，如 "reception"
	At       time.Time `yaml:"at"`       // 到访时间
}

// SaveData 存档数据结构
//
// 保存内容：
//   - 本局到访过的站点历史（诊疗流程依据它决定下一站）
//   - 代理最后所在的逻辑格子
type SaveData struct {
	Visits []VisitRecord `yaml:"visits"` // 按时间顺序的到访记录
	AgentX int           `yaml:"agentX"` // 代理最后所在格子 X
	AgentY int           `yaml:"agentY"` // 代理最后所在格子 Y
}

// SaveManager 存档管理器
//
// 职责：
//   - 加载和保存到访历史
//   - 提供流程脚本需要的站点序列
//
// 架构说明：
//   - 数据持久化到本地文件（YAML格式，与项目其他配置文件保持一致）
//   - 由场景在到达事件与退出时调用，不直接与系统交互
type SaveManager struct {
	savePath string
	data     *SaveData
}

// NewSaveManager 创建存档管理器
//
// 参数：
//   - saveDir: 存档目录路径（如 "saves"）
//
// 返回：
//   - *SaveManager: 新创建的存档管理器实例
//   - error: 如果目录创建或已有存档解析失败返回错误
func NewSaveManager(saveDir string) (*SaveManager, error) {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	sm := &SaveManager{
		savePath: filepath.Join(saveDir, "campus.yaml"),
		data:     &SaveData{},
	}

	if err := sm.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load save data: %w", err)
		}
		// 文件不存在，从空历史开始
	}

	return sm, nil
}

// Load 从磁盘加载存档
func (sm *SaveManager) Load() error {
	raw, err := os.ReadFile(sm.savePath)
	if err != nil {
		return err
	}
	var data SaveData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse save file %s: %w", sm.savePath, err)
	}
	sm.data = &data
	return nil
}

// Save 将存档写回磁盘
func (sm *SaveManager) Save() error {
	raw, err := yaml.Marshal(sm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}
	if err := os.WriteFile(sm.savePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write save file %s: %w", sm.savePath, err)
	}
	return nil
}

// RecordVisit 追加一条到访记录（仅内存，需调用 Save 持久化）
func (sm *SaveManager) RecordVisit(buildingID, station string) {
	sm.data.Visits = append(sm.data.Visits, VisitRecord{
		Building: buildingID,
		Station:  station,
		At:       time.Now(),
	})
}

// SetAgentCell 记录代理最后所在格子（仅内存，需调用 Save 持久化）
func (sm *SaveManager) SetAgentCell(x, y int) {
	sm.data.AgentX = x
	sm.data.AgentY = y
}

// AgentCell 返回存档中的代理格子与是否有历史记录
func (sm *SaveManager) AgentCell() (int, int, bool) {
	if len(sm.data.Visits) == 0 && sm.data.AgentX == 0 && sm.data.AgentY == 0 {
		return 0, 0, false
	}
	return sm.data.AgentX, sm.data.AgentY, true
}

// StationHistory 返回按时间顺序的站点名列表（流程脚本的输入）
func (sm *SaveManager) StationHistory() []string {
	history := make([]string, 0, len(sm.data.Visits))
	for _, v := range sm.data.Visits {
		history = append(history, v.Station)
	}
	return history
}

// Visits 返回全部到访记录
func (sm *SaveManager) Visits() []VisitRecord {
	return sm.data.Visits
}

// Reset 清空到访历史（仅内存，需调用 Save 持久化）
func (sm *SaveManager) Reset() {
	sm.data = &SaveData{}
}
