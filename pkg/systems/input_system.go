package systems

import (
	"log"

	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// InputSystem 处理指针输入（鼠标或触摸），把屏幕点击解析为网格格子
//
// 点击解析是唯一的入站输入通道：坐标经 utils.ScreenToGrid 转换，
// 越界点击在这里被过滤掉，寻路层因此永远不会收到越界坐标
type InputSystem struct {
	gridSystem    *WorldGridSystem
	onCellClicked func(cell types.GridCell)
}

// NewInputSystem 创建输入系统
// 参数:
//   - grid: 网格系统，用于边界校验
//   - onCellClicked: 有效格子被点击时的回调（由场景决定移动目标与交互）
func NewInputSystem(grid *WorldGridSystem, onCellClicked func(cell types.GridCell)) *InputSystem {
	return &InputSystem{
		gridSystem:    grid,
		onCellClicked: onCellClicked,
	}
}

// Update 处理本帧输入
func (s *InputSystem) Update() {
	pressed, mouseX, mouseY := utils.IsJustTouchedOrClicked()
	if !pressed {
		return
	}

	gridX, gridY := utils.ScreenToGrid(float64(mouseX), float64(mouseY))
	cell := types.Cell(gridX, gridY)

	if !s.gridSystem.InBounds(cell) {
		log.Printf("[Input] click (%d,%d) resolved outside the grid: %v", mouseX, mouseY, cell)
		return
	}

	if s.onCellClicked != nil {
		s.onCellClicked(cell)
	}
}
