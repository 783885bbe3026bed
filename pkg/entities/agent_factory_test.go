package entities

import (
	"testing"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// TestNewAgentEntity 测试代理出生在指定格子且渲染位置对齐
func TestNewAgentEntity(t *testing.T) {
	em, grid := newTestWorld(t)
	start := types.Cell(3, 5)

	id, err := NewAgentEntity(em, grid, start, 180)
	if err != nil {
		t.Fatalf("NewAgentEntity failed: %v", err)
	}

	walker, ok := ecs.GetComponent[*components.WalkerComponent](em, id)
	if !ok {
		t.Fatal("agent missing WalkerComponent")
	}
	if walker.State != types.MotionIdle {
		t.Errorf("state = %v, want Idle", walker.State)
	}
	if walker.Cell != start {
		t.Errorf("cell = %v, want %v", walker.Cell, start)
	}
	if walker.Speed != 180 {
		t.Errorf("speed = %v, want 180", walker.Speed)
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		t.Fatal("agent missing PositionComponent")
	}
	wantX, wantY := utils.CellToScreen(start)
	if pos.X != wantX || pos.Y != wantY {
		t.Errorf("position = (%v,%v), want (%v,%v)", pos.X, pos.Y, wantX, wantY)
	}
}

// TestNewAgentEntityRejectsBadStart 测试越界或被阻挡的出生格子
func TestNewAgentEntityRejectsBadStart(t *testing.T) {
	em, grid := newTestWorld(t)
	grid.OccupyCell(types.Cell(4, 4), em.CreateEntity())

	if _, err := NewAgentEntity(em, grid, types.Cell(-1, 0), 180); err == nil {
		t.Error("out-of-bounds start should fail")
	}
	if _, err := NewAgentEntity(em, grid, types.Cell(4, 4), 180); err == nil {
		t.Error("blocked start should fail")
	}
	if _, err := NewAgentEntity(em, grid, types.Cell(1, 1), 0); err == nil {
		t.Error("non-positive speed should fail")
	}
}
