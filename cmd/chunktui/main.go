// chunktui 在终端中运行智能体游走模拟
//
// 画布被缩放进终端窗口，每个字符格按所在网格格子的占用数量显示阴影，
// 主智能体（@）跟随鼠标，与其同格的智能体显示为 •，主智能体换格时发出提示音。
//
// 按键：空格 生成一批，Backspace 销毁一批，p 写入快照，m 静音，q/Esc 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/chunksim/pkg/config"
	"github.com/decker502/chunksim/pkg/game"
	"github.com/decker502/chunksim/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

var (
	configPath  = flag.String("config", "", "模拟配置文件路径，为空时使用默认配置")
	count       = flag.Int("count", -1, "智能体数量，覆盖配置文件")
	seed        = flag.Int64("seed", 0, "随机种子，覆盖配置文件")
	snapshotDir = flag.String("snapshots", ".", "快照输出目录（按 p 写入）")
	logFile     = flag.String("log", "", "日志文件路径，为空时丢弃日志")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chunktui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 终端被 tcell 占用，日志只能写文件
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := config.DefaultSimulationConfig()
	if *configPath != "" {
		loaded, err := config.LoadSimulationConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *count >= 0 {
		cfg.Agents.Count = *count
	}
	if *seed != 0 {
		cfg.Agents.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pointer := &utils.FixedPointer{X: int(cfg.Canvas.Width / 2), Y: int(cfg.Canvas.Height / 2)}
	world, err := game.NewWorld(cfg, game.WorldOptions{Pointer: pointer})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	cue := &cellCue{}
	if err := cue.init(); err != nil {
		// 没有声音也能运行
		log.Printf("[chunktui] audio initialization failed: %v", err)
	}
	defer cue.close()

	view := newTerminalView(screen, world, pointer, cue, *snapshotDir)
	loop(view, screen, time.Second/time.Duration(cfg.Window.TPS), cfg.DeltaTime())
	return nil
}

// loop 单一 tick 协程：事件经通道送达，网格只在这里被访问
func loop(view *terminalView, screen tcell.Screen, interval time.Duration, deltaTime float64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Fini 之后 PollEvent 返回 nil
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !view.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			view.step(deltaTime)
			view.draw()
		}
	}
}
