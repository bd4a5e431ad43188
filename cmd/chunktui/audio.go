package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	cueSampleRate = beep.SampleRate(44100)
	cueFrequency  = 660
	cueDuration   = 40 * time.Millisecond
)

// cellCue 主智能体跨格时播放的短促提示音
type cellCue struct {
	initialized bool
	muted       bool
}

// init 初始化扬声器，失败时保持静音，程序照常运行
func (c *cellCue) init() error {
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// play 播放一次提示音
func (c *cellCue) play() {
	if !c.initialized || c.muted {
		return
	}

	sine, err := generators.SineTone(cueSampleRate, cueFrequency)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(cueSampleRate.N(cueDuration), sine))
}

// toggleMute 切换静音，返回新状态
func (c *cellCue) toggleMute() bool {
	c.muted = !c.muted
	return c.muted
}

func (c *cellCue) close() {
	if c.initialized {
		speaker.Close()
		c.initialized = false
	}
}
