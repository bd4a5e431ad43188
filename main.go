package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/decker502/chunksim/pkg/app"
	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	configPath  = flag.String("config", "", "模拟配置文件路径，为空时使用内嵌的 data/simulation.yaml")
	count       = flag.Int("count", -1, "智能体数量，覆盖配置文件（也可作为第一个位置参数传入）")
	seed        = flag.Int64("seed", 0, "随机种子，覆盖配置文件")
	snapshotDir = flag.String("snapshots", "snapshots", "快照输出目录（按 P 写入）")
)

// loadConfig 加载配置并应用命令行覆盖
func loadConfig() (*config.SimulationConfig, error) {
	var (
		cfg *config.SimulationConfig
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadSimulationConfig(*configPath)
	} else {
		cfg, err = config.LoadEmbeddedSimulationConfig()
	}
	if err != nil {
		return nil, err
	}

	if flag.NArg() > 0 {
		n, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("invalid agent count %q: %w", flag.Arg(0), err)
		}
		cfg.Agents.Count = n
	}
	if *count >= 0 {
		cfg.Agents.Count = *count
	}
	if *seed != 0 {
		cfg.Agents.Seed = *seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(2)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		Simulation:  cfg,
		SnapshotDir: *snapshotDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetFullscreen(gameApp.StartFullscreen())

	err = ebiten.RunGame(gameApp)
	gameApp.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "运行错误: %v\n", err)
		os.Exit(1)
	}
}
