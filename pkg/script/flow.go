// Package script 提供诊疗流程的 tengo 脚本运行时
// 流程逻辑（到达某站点后下一步去哪）写在脚本里，
// 便于调整剧情编排而无需重新编译
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/silverdavi/rheal-lab/pkg/embedded"
)

// flowDispatchScript 追加到用户脚本末尾的调度代码
// 约定脚本定义 next_station(station, history) 并返回下一站点名，
// 返回空字符串表示流程结束
const flowDispatchScript = `
__next = next_station(__station, __history)
`

// FlowRuntime 诊疗流程脚本运行时
// 持有编译后的脚本，按到达站点与访问历史给出下一站点建议
type FlowRuntime struct {
	path     string
	compiled *tengo.Compiled
}

// NewFlowRuntime 从文件加载并编译流程脚本
// 磁盘上找不到时回退到嵌入资源
func NewFlowRuntime(path string) (*FlowRuntime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && embedded.IsInitialized() {
			data, err = embedded.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read flow script %s: %w", path, err)
		}
	}
	rt, err := NewFlowRuntimeFromSource(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile flow script %s: %w", path, err)
	}
	rt.path = path
	return rt, nil
}

// NewFlowRuntimeFromSource 从脚本源码编译流程运行时
// 脚本缺少 next_station 定义时在编译阶段报错
func NewFlowRuntimeFromSource(src []byte) (*FlowRuntime, error) {
	full := string(src) + "\n" + flowDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__station", "")
	_ = script.Add("__history", []interface{}{})
	_ = script.Add("__next", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &FlowRuntime{compiled: compiled}, nil
}

// Path 返回脚本来源路径（源码构造时为空）
func (r *FlowRuntime) Path() string {
	return r.path
}

// NextStation 查询到达 station 后的下一站点
// history 是按时间顺序的已访问站点列表（含本次）
// 返回空字符串表示流程结束
func (r *FlowRuntime) NextStation(station string, history []string) (string, error) {
	hist := make([]interface{}, len(history))
	for i, h := range history {
		hist[i] = h
	}
	if err := r.compiled.Set("__station", station); err != nil {
		return "", err
	}
	if err := r.compiled.Set("__history", hist); err != nil {
		return "", err
	}
	if err := r.compiled.Run(); err != nil {
		return "", fmt.Errorf("flow script error: %w", err)
	}
	next := strings.TrimSpace(r.compiled.Get("__next").String())
	return next, nil
}
