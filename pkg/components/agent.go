package components

// AgentKind 智能体类别，决定渲染颜色
type AgentKind int

const (
	// AgentFarMain 与主智能体不在同一格子
	AgentFarMain AgentKind = iota
	// AgentNearMain 与主智能体处于同一格子
	AgentNearMain
	// AgentMain 跟随光标的主智能体
	AgentMain
)

func (k AgentKind) String() string {
	switch k {
	case AgentMain:
		return "main"
	case AgentNearMain:
		return "near"
	default:
		return "far"
	}
}

// AgentComponent 游走智能体
type AgentComponent struct {
	Kind  AgentKind
	Speed float64 // 每秒趋近剩余距离的比例
	// DestX, DestY 当前目标点（世界坐标）
	DestX, DestY float64
	// IsTravelling 为 false 时 DestinationSystem 会为其挑选新目标
	IsTravelling bool
}

// CursorAgentComponent 标识跟随光标的主智能体（每个场景只有一个）
type CursorAgentComponent struct{}
