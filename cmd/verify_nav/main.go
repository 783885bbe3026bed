// verify_nav 是寻路与移动的命令行验证程序
//
// 加载世界配置，构建网格与建筑，然后依次在各建筑入口之间寻路，
// 打印每条路径并模拟代理走完第一条路径。用于在不启动图形界面
// 的情况下快速检查寻路行为。
//
// 用法:
//
//	go run ./cmd/verify_nav -world assets/config/world.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/silverdavi/rheal-lab/pkg/components"
	"github.com/silverdavi/rheal-lab/pkg/config"
	"github.com/silverdavi/rheal-lab/pkg/ecs"
	"github.com/silverdavi/rheal-lab/pkg/entities"
	"github.com/silverdavi/rheal-lab/pkg/systems"
	"github.com/silverdavi/rheal-lab/pkg/types"
	"github.com/silverdavi/rheal-lab/pkg/utils"
)

var (
	worldPath = flag.String("world", "assets/config/world.yaml", "世界配置文件路径")
	verbose   = flag.Bool("verbose", false, "打印每个路径点")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadWorldConfig(*worldPath)
	if err != nil {
		log.Fatalf("加载世界配置失败: %v", err)
	}

	em := ecs.NewEntityManager()
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, components.NewWorldGridComponent(cfg.Grid.Columns, cfg.Grid.Rows))
	grid := systems.NewWorldGridSystem(em, gridEntity)

	for _, spec := range cfg.Buildings {
		if _, err := entities.NewBuildingEntity(em, grid, spec); err != nil {
			log.Fatalf("创建建筑 %s 失败: %v", spec.ID, err)
		}
	}
	finder := systems.NewPathFinder(grid)

	start := types.Cell(cfg.Agent.Start.X, cfg.Agent.Start.Y)
	agentID, err := entities.NewAgentEntity(em, grid, start, cfg.Agent.Speed)
	if err != nil {
		log.Fatalf("创建代理失败: %v", err)
	}
	walker, _ := ecs.GetComponent[*components.WalkerComponent](em, agentID)

	fmt.Printf("世界: %dx%d 格, %d 栋建筑, 代理起点 %v\n",
		cfg.Grid.Columns, cfg.Grid.Rows, len(cfg.Buildings), walker.Cell)

	failures := 0
	from := start
	for _, spec := range cfg.Buildings {
		goal := types.Cell(spec.Entry.X, spec.Entry.Y)
		path := finder.FindPath(from, goal)
		if path == nil {
			fmt.Printf("FAIL  %v -> %s 入口 %v: 无可达路径\n", from, spec.ID, goal)
			failures++
			continue
		}
		fmt.Printf("OK    %v -> %s 入口 %v: %d 步\n", from, spec.ID, goal, len(path)-1)
		if *verbose {
			for i, cell := range path {
				fmt.Printf("      [%d] %v\n", i, cell)
			}
		}
		// 验证每一步都是四邻接且可通行
		for i := 1; i < len(path); i++ {
			if utils.Manhattan(path[i-1], path[i]) != 1 {
				fmt.Printf("FAIL  路径 %v -> %v 第 %d 步不相邻\n", from, goal, i)
				failures++
			}
			if !grid.IsWalkable(path[i]) {
				fmt.Printf("FAIL  路径 %v -> %v 第 %d 步穿过障碍 %v\n", from, goal, i, path[i])
				failures++
			}
		}
		from = goal
	}

	// 模拟代理沿第一条路径走完全程
	movement := systems.NewMovementSystem(em, finder)
	target := types.Cell(cfg.Buildings[0].Entry.X, cfg.Buildings[0].Entry.Y)
	arrived := false
	if !movement.RequestMove(agentID, target, func() { arrived = true }) {
		log.Fatalf("RequestMove %v 被拒绝", target)
	}
	const dt = 1.0 / 60.0
	for frame := 0; frame < 10000 && !arrived; frame++ {
		movement.Update(dt)
	}
	if !arrived {
		fmt.Printf("FAIL  代理未能在限定帧数内到达 %v\n", target)
		failures++
	} else {
		fmt.Printf("OK    代理到达 %v, 状态 %s\n", walker.Cell, walker.State)
	}

	if failures > 0 {
		fmt.Printf("\n%d 项检查失败\n", failures)
		os.Exit(1)
	}
	fmt.Println("\n全部检查通过")
}
