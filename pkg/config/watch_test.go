package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWatcherReportsConfigWrite 测试 yaml 写入会产生事件
func TestWatcherReportsConfigWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("id: campus\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("Expected event for %s, got %s", path, got)
		}
	case err := <-w.Errors:
		t.Fatalf("Watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for config write event")
	}
}

// TestWatcherIgnoresOtherFiles 测试非配置文件的写入不产生事件
func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	select {
	case got := <-w.Events:
		t.Errorf("Unexpected event for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatcherCloseIdempotent 测试 Close 可以安全地重复调用
func TestWatcherCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	// 关闭后事件通道应当已关闭
	if _, ok := <-w.Events; ok {
		t.Error("Expected Events channel to be closed")
	}
}

// TestWatcherMissingDir 测试监视不存在的目录返回错误
func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "no_such_dir")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
