package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// fakeScene 记录调用次数的测试场景
type fakeScene struct {
	updates int
	lastDt  float64
}

func (s *fakeScene) Update(deltaTime float64) {
	s.updates++
	s.lastDt = deltaTime
}

func (s *fakeScene) Draw(screen *ebiten.Image) {}

// TestSceneManagerSwitchTo 测试场景切换与更新分发
func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()

	// 无场景时 Update 不崩溃
	sm.Update(1.0 / 60.0)

	scene := &fakeScene{}
	sm.SwitchTo(scene)
	if sm.GetCurrentScene() != scene {
		t.Error("GetCurrentScene() should return the switched scene")
	}

	sm.Update(1.0 / 60.0)
	if scene.updates != 1 {
		t.Errorf("updates = %d, want 1", scene.updates)
	}
	if scene.lastDt != 1.0/60.0 {
		t.Errorf("deltaTime = %v, want %v", scene.lastDt, 1.0/60.0)
	}
}

// TestSceneManagerLoadWorld 测试通过工厂函数加载世界
func TestSceneManagerLoadWorld(t *testing.T) {
	sm := NewSceneManager()

	// 未设置工厂时不崩溃、不切换
	sm.LoadWorld("assets/config/world.yaml")
	if sm.GetCurrentScene() != nil {
		t.Error("LoadWorld without factory should not switch scene")
	}

	var gotPath string
	scene := &fakeScene{}
	sm.SetSceneFactory(func(worldPath string) Scene {
		gotPath = worldPath
		return scene
	})

	sm.LoadWorld("assets/config/world.yaml")
	if gotPath != "assets/config/world.yaml" {
		t.Errorf("factory path = %q", gotPath)
	}
	if sm.GetCurrentScene() != scene {
		t.Error("LoadWorld should switch to the factory scene")
	}

	// 工厂返回 nil 时保持当前场景
	sm.SetSceneFactory(func(string) Scene { return nil })
	sm.LoadWorld("assets/config/missing.yaml")
	if sm.GetCurrentScene() != scene {
		t.Error("nil factory result should not replace current scene")
	}
}
