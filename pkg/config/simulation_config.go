package config

import (
	"fmt"
	"os"

	"github.com/decker502/chunksim/pkg/chunk"
	"github.com/decker502/chunksim/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// SimulationConfigPath 内嵌默认配置的路径
const SimulationConfigPath = "data/simulation.yaml"

// SimulationConfig 模拟配置
//
// 画布尺寸与格子尺寸共同决定空间网格的形状（cols = floor(canvas/chunk)），
// 其余字段控制智能体的数量与行为。
//
// 配置文件位置: data/simulation.yaml
type SimulationConfig struct {
	// Canvas 画布尺寸（世界坐标，原点位于画布中心）
	Canvas SizeConfig `yaml:"canvas"`

	// Chunk 单个格子尺寸
	Chunk SizeConfig `yaml:"chunk"`

	// Agents 智能体配置
	Agents AgentsConfig `yaml:"agents"`

	// Window 窗口配置
	Window WindowConfig `yaml:"window"`
}

// SizeConfig 宽高对
type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AgentsConfig 智能体配置
type AgentsConfig struct {
	// Count 启动时生成的智能体数量
	Count int `yaml:"count"`

	// Speed 趋近目标的速率系数（每秒移动剩余距离的比例）
	Speed float64 `yaml:"speed"`

	// CursorSpeed 主智能体跟随指针的速率系数
	CursorSpeed float64 `yaml:"cursorSpeed"`

	// Size 精灵半径（像素）
	Size float64 `yaml:"size"`

	// Lifetime 智能体存活时间（秒），0 表示永久存活
	Lifetime float64 `yaml:"lifetime"`

	// DestinationMargin 目标点边界除数：目标点被限制在 ±canvas/2/margin 内
	DestinationMargin float64 `yaml:"destinationMargin"`

	// BatchSize 每次按键生成/销毁的智能体数量
	BatchSize int `yaml:"batchSize"`

	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Title string `yaml:"title"`
	// TPS 每秒逻辑帧数
	TPS int `yaml:"tps"`
}

// DefaultSimulationConfig 返回默认配置（与 data/simulation.yaml 一致）
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		Canvas: SizeConfig{Width: 1920, Height: 1080},
		Chunk:  SizeConfig{Width: 64, Height: 27},
		Agents: AgentsConfig{
			Count:             1000,
			Speed:             3.0,
			CursorSpeed:       8.0,
			Size:              2.0,
			Lifetime:          0,
			DestinationMargin: 2.31,
			BatchSize:         100,
		},
		Window: WindowConfig{
			Title: "Chunks",
			TPS:   60,
		},
	}
}

// LoadSimulationConfig 从磁盘加载模拟配置
//
// 参数:
//   - path: 配置文件路径（如 "data/simulation.yaml"）
//
// 返回:
//   - *SimulationConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}
	return ParseSimulationConfig(data)
}

// LoadEmbeddedSimulationConfig 加载内嵌的默认配置文件
// 调用前必须先调用 embedded.Init()
func LoadEmbeddedSimulationConfig() (*SimulationConfig, error) {
	data, err := embedded.ReadFile(SimulationConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded simulation config: %w", err)
	}
	return ParseSimulationConfig(data)
}

// ParseSimulationConfig 解析 YAML 格式的模拟配置
//
// 未出现在 YAML 中的字段保留默认值。
func ParseSimulationConfig(data []byte) (*SimulationConfig, error) {
	cfg := DefaultSimulationConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 网格形状（格子能否放进画布、格子总数上限）按 chunk.Shape 的规则检查，
// 返回的错误可用 errors.Is(err, chunk.ErrConfig) 识别。
func (c *SimulationConfig) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %.1fx%.1f", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Chunk.Width <= 0 || c.Chunk.Height <= 0 {
		return fmt.Errorf("chunk size must be positive, got %.1fx%.1f", c.Chunk.Width, c.Chunk.Height)
	}
	if _, _, err := chunk.Shape(c.Canvas.Width, c.Canvas.Height, c.Chunk.Width, c.Chunk.Height); err != nil {
		return fmt.Errorf("invalid grid shape: %w", err)
	}
	if c.Agents.Count < 0 {
		return fmt.Errorf("agent count must be >= 0, got %d", c.Agents.Count)
	}
	if c.Agents.Speed <= 0 {
		return fmt.Errorf("agent speed must be positive, got %.2f", c.Agents.Speed)
	}
	if c.Agents.CursorSpeed <= 0 {
		return fmt.Errorf("cursor speed must be positive, got %.2f", c.Agents.CursorSpeed)
	}
	if c.Agents.Size <= 0 {
		return fmt.Errorf("agent size must be positive, got %.2f", c.Agents.Size)
	}
	if c.Agents.Lifetime < 0 {
		return fmt.Errorf("agent lifetime must be >= 0, got %.2f", c.Agents.Lifetime)
	}
	if c.Agents.DestinationMargin < 1 {
		return fmt.Errorf("destination margin must be >= 1, got %.2f", c.Agents.DestinationMargin)
	}
	if c.Agents.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", c.Agents.BatchSize)
	}
	if c.Window.TPS < 1 {
		return fmt.Errorf("tps must be >= 1, got %d", c.Window.TPS)
	}
	return nil
}

// DeltaTime 返回固定逻辑帧时长（秒）
func (c *SimulationConfig) DeltaTime() float64 {
	return 1.0 / float64(c.Window.TPS)
}
