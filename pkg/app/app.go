// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：创建各管理器、
// 构建园区场景并实现 ebiten.Game 接口的主循环。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/game"
	"github.com/silverdavi/rheal-lab/pkg/scenes"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// WorldPath 世界配置文件路径，为空则使用默认园区
	WorldPath string
	// SaveDir 存档目录
	SaveDir string
	// Watch 监视配置与脚本目录并热重载（调试用）
	Watch bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.WorldPath == "" {
		cfg.WorldPath = "assets/config/world.yaml"
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = "saves"
	}

	// 设置存储：Android 上需要先确保存储目录存在
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] storage dir unavailable: %v", err)
	}

	// gdata 打开失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "rheal_lab",
	})
	if err != nil {
		log.Printf("[App] gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] settings load failed: %v", err)
	}

	saveManager, err := game.NewSaveManager(cfg.SaveDir)
	if err != nil {
		return nil, fmt.Errorf("存档初始化失败: %w", err)
	}

	// 创建场景管理器与园区场景工厂
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(worldPath string) game.Scene {
		scene, err := scenes.NewCampusScene(worldPath, settingsManager, saveManager, cfg.Watch)
		if err != nil {
			log.Printf("[App] 园区场景创建失败: %v", err)
			return nil
		}
		return scene
	})

	sceneManager.LoadWorld(cfg.WorldPath)
	if sceneManager.GetCurrentScene() == nil {
		return nil, fmt.Errorf("无法加载世界: %s", cfg.WorldPath)
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 窗口关闭时先给场景保存状态的机会（main 中开启了 SetWindowClosingHandled）
	if ebiten.IsWindowBeingClosed() {
		if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
			if !saveable.SaveOnExit() {
				log.Printf("[App] 退出存档失败")
			}
		}
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端全屏由系统托管，跳过）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settingsManager.SetFullscreen(ebiten.IsFullscreen())
		if err := a.settingsManager.Save(); err != nil {
			log.Printf("[App] 设置保存失败: %v", err)
		}
	}

	// G 切换网格线
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		settings := a.settingsManager.GetSettings()
		a.settingsManager.SetShowGridLines(!settings.ShowGridLines)
		if scene, ok := a.sceneManager.GetCurrentScene().(*scenes.CampusScene); ok {
			scene.SetShowGridLines(settings.ShowGridLines)
		}
		if err := a.settingsManager.Save(); err != nil {
			log.Printf("[App] 设置保存失败: %v", err)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存存档
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
