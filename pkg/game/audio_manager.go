package game

import (
	"encoding/binary"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioSampleRate 音频上下文的采样率
const AudioSampleRate = 48000

// 提示音ID
const (
	// SoundCellChange 主智能体进入新格子
	SoundCellChange = "cell_change"
	// SoundSpawn 生成一批智能体
	SoundSpawn = "spawn"
)

// ToneSpec 描述一个合成提示音
type ToneSpec struct {
	Frequency float64       // 频率（Hz）
	Duration  time.Duration // 时长
}

// DefaultTones 模拟使用的提示音
var DefaultTones = map[string]ToneSpec{
	SoundCellChange: {Frequency: 660, Duration: 40 * time.Millisecond},
	SoundSpawn:      {Frequency: 440, Duration: 80 * time.Millisecond},
}

// AudioManager 音频管理器
// 职责：
//   - 预先合成提示音的 PCM 数据
//   - 播放时应用 SettingsManager 中的开关与音量
//
// audio.Context 为 nil 时（无声环境、测试）所有播放请求直接返回 false。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager
	tones           map[string][]byte // 提示音ID -> 16 位立体声 PCM
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: Ebitengine 音频上下文，可为 nil
//   - sm: SettingsManager 实例（用于读取开关和音量，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		context:         ctx,
		settingsManager: sm,
		tones:           make(map[string][]byte),
	}
	for id, spec := range DefaultTones {
		am.RegisterTone(id, spec)
	}
	return am
}

// RegisterTone 合成并登记一个提示音，同名提示音被覆盖
func (am *AudioManager) RegisterTone(soundID string, spec ToneSpec) {
	am.tones[soundID] = synthesizeTone(AudioSampleRate, spec)
}

// HasSound 检查提示音是否已登记
func (am *AudioManager) HasSound(soundID string) bool {
	_, ok := am.tones[soundID]
	return ok
}

// PlaySound 播放提示音
//
// 参数：
//   - soundID: 提示音ID（如 SoundCellChange）
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if !am.soundEnabled() {
		return false
	}

	pcm, ok := am.tones[soundID]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", soundID)
		return false
	}
	if am.context == nil {
		return false
	}

	// 每次新建播放器，重叠的提示音互不打断
	player := am.context.NewPlayerFromBytes(pcm)
	player.SetVolume(am.getSoundVolume())
	player.Play()
	return true
}

func (am *AudioManager) soundEnabled() bool {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundEnabled
	}
	return true
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.5 // 默认值
}

// synthesizeTone 生成带线性淡出的正弦波
// 输出格式与 audio.Context 一致：16 位有符号小端、立体声
func synthesizeTone(sampleRate int, spec ToneSpec) []byte {
	n := int(int64(sampleRate) * int64(spec.Duration) / int64(time.Second))
	if n <= 0 {
		return nil
	}

	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		envelope := 1 - float64(i)/float64(n)
		v := math.Sin(2*math.Pi*spec.Frequency*float64(i)/float64(sampleRate)) * envelope
		sample := uint16(int16(v * math.MaxInt16 * 0.8))
		binary.LittleEndian.PutUint16(buf[i*4:], sample)
		binary.LittleEndian.PutUint16(buf[i*4+2:], sample)
	}
	return buf
}
