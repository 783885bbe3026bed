package game

import (
	"os"
	"path/filepath"
	"testing"
)

// TestSaveManagerRoundTrip 测试到访历史的保存与重新加载
func TestSaveManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()

	sm, err := NewSaveManager(dir)
	if err != nil {
		t.Fatalf("NewSaveManager failed: %v", err)
	}

	sm.RecordVisit("reception", "reception")
	sm.RecordVisit("lab", "lab")
	sm.SetAgentCell(5, 8)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 新实例重新加载
	sm2, err := NewSaveManager(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	history := sm2.StationHistory()
	if len(history) != 2 || history[0] != "reception" || history[1] != "lab" {
		t.Errorf("history = %v, want [reception lab]", history)
	}
	x, y, ok := sm2.AgentCell()
	if !ok || x != 5 || y != 8 {
		t.Errorf("agent cell = (%d,%d,%v), want (5,8,true)", x, y, ok)
	}

	visits := sm2.Visits()
	if len(visits) != 2 || visits[0].Building != "reception" || visits[1].Building != "lab" {
		t.Errorf("visits = %+v", visits)
	}
	if visits[0].At.IsZero() {
		t.Error("visit timestamp should be set")
	}
}

// TestSaveManagerEmptyState 测试无存档文件时从空历史开始
func TestSaveManagerEmptyState(t *testing.T) {
	sm, err := NewSaveManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewSaveManager failed: %v", err)
	}
	if len(sm.StationHistory()) != 0 {
		t.Errorf("fresh save should have empty history, got %v", sm.StationHistory())
	}
	if _, _, ok := sm.AgentCell(); ok {
		t.Error("fresh save should not report an agent cell")
	}
}

// TestSaveManagerReset 测试清空历史后保存
func TestSaveManagerReset(t *testing.T) {
	dir := t.TempDir()
	sm, err := NewSaveManager(dir)
	if err != nil {
		t.Fatalf("NewSaveManager failed: %v", err)
	}
	sm.RecordVisit("garden", "garden")
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sm.Reset()
	if err := sm.Save(); err != nil {
		t.Fatalf("Save after Reset failed: %v", err)
	}

	sm2, err := NewSaveManager(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(sm2.StationHistory()) != 0 {
		t.Errorf("history after reset = %v, want empty", sm2.StationHistory())
	}
}

// TestSaveManagerCorruptFile 测试损坏的存档文件报错
func TestSaveManagerCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "campus.yaml"), []byte("{not yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSaveManager(dir); err == nil {
		t.Error("corrupt save file should fail to load")
	}
}
