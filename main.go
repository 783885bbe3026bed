package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/silverdavi/rheal-lab/pkg/app"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "输出详细日志")
	worldPath := flag.String("world", "", "世界配置文件路径（默认使用内置园区）")
	saveDir := flag.String("saves", "saves", "存档目录")
	watch := flag.Bool("watch", false, "监视配置与脚本文件，修改后热重载")
	flag.Parse()

	// 初始化嵌入资源
	// assetsFS 在 embed.go 中声明
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		WorldPath: *worldPath,
		SaveDir:   *saveDir,
		Watch:     *watch,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Rheal Lab")
	// 关闭事件交由 App.Update 处理，退出前保存进度
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
