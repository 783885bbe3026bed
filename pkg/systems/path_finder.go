package systems

import (
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// PathFinder 在园区网格上做最短路径搜索
//
// 算法：A*，四连通邻居（上下左右，无对角线），每步代价恒为 1，
// 启发函数为曼哈顿距离（可采纳且一致）。
//
// 确定性约定：开放集是一个保持插入顺序的切片，每轮线性扫描取
// f 最小的节点展开，f 相等时先插入者先展开。这条平局规则保证
// 相同输入永远得到相同路径，测试可以精确断言结果。
//
// 已关闭的节点不再重开：在所有边权相同的前提下，经过已关闭节点
// 不可能得到更短路径，这是可证明安全的简化。若将来引入加权地形，
// 该不变量会静默失效，必须改回标准的重开逻辑。
type PathFinder struct {
	grid *WorldGridSystem
}

// NewPathFinder 创建寻路器
func NewPathFinder(grid *WorldGridSystem) *PathFinder {
	return &PathFinder{grid: grid}
}

// searchNode 一次搜索内部的节点标注
// 仅存活于单次 FindPath 调用期间，调用之间不共享
type searchNode struct {
	cell   types.GridCell
	g      int // 已走步数
	h      int // 到目标的曼哈顿距离
	f      int // g + h
	parent *searchNode
}

// neighborOffsets 四连通邻居的固定展开顺序
// 顺序本身不影响最优性，固定下来是为了结果可复现
var neighborOffsets = [4]types.GridCell{
	{X: 1, Y: 0},  // 东
	{X: -1, Y: 0}, // 西
	{X: 0, Y: 1},  // 南
	{X: 0, Y: -1}, // 北
}

// FindPath 搜索从 start 到 goal 的最短路径
//
// 返回的路径从出发格子之后的第一步开始、以目标格子结尾（不含出发
// 格子）；一经返回即不可变，重新寻路产生新路径。
//
// 目标不可通行时立即返回空路径，不做任何展开；起点不可通行按约定
// 属于调用方违约（起点应当是代理当前格子），这里同样返回空路径
// 作为入口处的防御性兜底。找不到连通路径时返回空路径，没有错误值。
func (pf *PathFinder) FindPath(start, goal types.GridCell) []types.GridCell {
	if !pf.grid.IsWalkable(goal) || !pf.grid.IsWalkable(start) {
		return nil
	}

	startNode := &searchNode{
		cell: start,
		g:    0,
		h:    utils.Manhattan(start, goal),
	}
	startNode.f = startNode.h

	open := []*searchNode{startNode}
	openByCell := map[types.GridCell]*searchNode{start: startNode}
	closed := make(map[types.GridCell]bool)

	for len(open) > 0 {
		// 取 f 最小的节点；严格小于才替换，平局时保留先插入者
		best := 0
		for i := 1; i < len(open); i++ {
			if open[i].f < open[best].f {
				best = i
			}
		}
		current := open[best]
		open = append(open[:best], open[best+1:]...)
		delete(openByCell, current.cell)

		if current.cell == goal {
			return reconstructPath(current)
		}

		closed[current.cell] = true

		for _, off := range neighborOffsets {
			next := types.Cell(current.cell.X+off.X, current.cell.Y+off.Y)
			if closed[next] || !pf.grid.IsWalkable(next) {
				continue
			}

			g := current.g + 1
			if node, ok := openByCell[next]; ok {
				// 开放集中已有该格子：发现更短路线时原地降键
				if g < node.g {
					node.g = g
					node.f = g + node.h
					node.parent = current
				}
				continue
			}

			node := &searchNode{
				cell:   next,
				g:      g,
				h:      utils.Manhattan(next, goal),
				parent: current,
			}
			node.f = node.g + node.h
			open = append(open, node)
			openByCell[next] = node
		}
	}

	// 开放集耗尽仍未到达目标：不连通
	return nil
}

// reconstructPath 沿 parent 链从目标回溯到起点，反转后剔除起点
func reconstructPath(goal *searchNode) []types.GridCell {
	var rev []types.GridCell
	for n := goal; n.parent != nil; n = n.parent {
		rev = append(rev, n.cell)
	}
	path := make([]types.GridCell, len(rev))
	for i, cell := range rev {
		path[len(rev)-1-i] = cell
	}
	return path
}
