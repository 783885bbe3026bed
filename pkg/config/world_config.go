package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/silverdavi/rheal-lab/pkg/embedded"
)

// WorldConfig 园区世界配置
// 定义网格尺寸、代理出生点以及建筑列表
type WorldConfig struct {
	ID        string         `yaml:"id"`        // 世界ID，如 "campus"
	Name      string         `yaml:"name"`      // 世界名称（可选）
	Grid      GridSpec       `yaml:"grid"`      // 网格尺寸
	Agent     AgentSpec      `yaml:"agent"`     // 代理初始配置
	Buildings []BuildingSpec `yaml:"buildings"` // 建筑列表
	Flow      FlowSpec       `yaml:"flow"`      // 诊疗流程脚本配置（可选）
}

// GridSpec 网格尺寸配置
type GridSpec struct {
	Columns int `yaml:"columns"` // 列数，默认 GridColumns
	Rows    int `yaml:"rows"`    // 行数，默认 GridRows
}

// CellSpec 单个格子坐标配置
type CellSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// AgentSpec 代理初始配置
type AgentSpec struct {
	Start CellSpec `yaml:"start"` // 出生格子
	Speed float64  `yaml:"speed"` // 行走速度（像素/秒），默认 DefaultWalkSpeed
}

// BuildingSpec 单个建筑配置
// 建筑占据以 Origin 为左上角的 Width×Height 矩形覆盖区
// Entry 是建筑的入口格子（覆盖区之外），点击建筑时代理走向该格子
type BuildingSpec struct {
	ID      string   `yaml:"id"`      // 建筑ID，如 "reception"
	Station string   `yaml:"station"` // 站点类型："reception", "consult", "lab", "cryo", "garden"
	Name    string   `yaml:"name"`    // 显示名称（可选，默认等于 ID）
	Origin  CellSpec `yaml:"origin"`  // 覆盖区左上角格子
	Width   int      `yaml:"width"`   // 覆盖区宽度（格子数），默认 1
	Height  int      `yaml:"height"`  // 覆盖区高度（格子数），默认 1
	Entry   CellSpec `yaml:"entry"`   // 入口格子
}

// FlowSpec 诊疗流程脚本配置
type FlowSpec struct {
	Script string `yaml:"script"` // tengo 脚本路径，默认 "assets/scripts/treatment_flow.tengo"
}

// LoadWorldConfig 从YAML文件加载世界配置
// 磁盘上找不到文件时回退到嵌入资源（便于从任意工作目录启动）
// 参数：
//
//	path - 世界配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*WorldConfig - 解析后的世界配置对象
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadWorldConfig(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && embedded.IsInitialized() {
			data, err = embedded.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read world config file %s: %w", path, err)
		}
	}
	return ParseWorldConfig(data)
}

// ParseWorldConfig 解析YAML字节流为世界配置
// 应用默认值并校验内容
func ParseWorldConfig(data []byte) (*WorldConfig, error) {
	var cfg WorldConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse world config YAML: %w", err)
	}

	applyWorldDefaults(&cfg)

	if err := validateWorldConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid world config: %w", err)
	}
	return &cfg, nil
}

// applyWorldDefaults 应用默认值（缺省字段向后兼容）
func applyWorldDefaults(cfg *WorldConfig) {
	if cfg.Grid.Columns <= 0 {
		cfg.Grid.Columns = GridColumns
	}
	if cfg.Grid.Rows <= 0 {
		cfg.Grid.Rows = GridRows
	}
	if cfg.Agent.Speed <= 0 {
		cfg.Agent.Speed = DefaultWalkSpeed
	}
	if cfg.Flow.Script == "" {
		cfg.Flow.Script = "assets/scripts/treatment_flow.tengo"
	}
	for i := range cfg.Buildings {
		b := &cfg.Buildings[i]
		if b.Width <= 0 {
			b.Width = 1
		}
		if b.Height <= 0 {
			b.Height = 1
		}
		if b.Name == "" {
			b.Name = b.ID
		}
	}
}

// validateWorldConfig 校验世界配置
// 建筑覆盖区必须完整落在网格内；入口格子必须在网格内且不被自身覆盖区覆盖
// 覆盖区之间的重叠在建筑工厂统一检测（需要运行时网格状态）
func validateWorldConfig(cfg *WorldConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("missing required field: id")
	}

	inGrid := func(x, y int) bool {
		return x >= 0 && x < cfg.Grid.Columns && y >= 0 && y < cfg.Grid.Rows
	}

	if !inGrid(cfg.Agent.Start.X, cfg.Agent.Start.Y) {
		return fmt.Errorf("agent start (%d,%d) is outside the %dx%d grid",
			cfg.Agent.Start.X, cfg.Agent.Start.Y, cfg.Grid.Columns, cfg.Grid.Rows)
	}

	seen := make(map[string]bool, len(cfg.Buildings))
	for _, b := range cfg.Buildings {
		if b.ID == "" {
			return fmt.Errorf("building with empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate building id: %s", b.ID)
		}
		seen[b.ID] = true

		if !inGrid(b.Origin.X, b.Origin.Y) ||
			!inGrid(b.Origin.X+b.Width-1, b.Origin.Y+b.Height-1) {
			return fmt.Errorf("building %s footprint (%d,%d) %dx%d exceeds the %dx%d grid",
				b.ID, b.Origin.X, b.Origin.Y, b.Width, b.Height, cfg.Grid.Columns, cfg.Grid.Rows)
		}

		if !inGrid(b.Entry.X, b.Entry.Y) {
			return fmt.Errorf("building %s entry (%d,%d) is outside the grid", b.ID, b.Entry.X, b.Entry.Y)
		}
		if b.Entry.X >= b.Origin.X && b.Entry.X < b.Origin.X+b.Width &&
			b.Entry.Y >= b.Origin.Y && b.Entry.Y < b.Origin.Y+b.Height {
			return fmt.Errorf("building %s entry (%d,%d) lies inside its own footprint", b.ID, b.Entry.X, b.Entry.Y)
		}
	}
	return nil
}
