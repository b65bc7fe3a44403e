package transcript

// LineType is the classification of a single raw transcript line
type LineType int

const (
	UserTurn LineType = iota
	AssistantTurn
	ToolCall
	ToolOutput
	Progress
	Continuation
)

func (lt LineType) String() string {
	switch lt {
	case UserTurn:
		return "user"
	case AssistantTurn:
		return "assistant"
	case ToolCall:
		return "tool_call"
	case ToolOutput:
		return "tool_output"
	case Progress:
		return "progress"
	case Continuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// opensBlock reports whether a line of this type starts a new block
func (lt LineType) opensBlock() bool {
	switch lt {
	case UserTurn, AssistantTurn, ToolCall:
		return true
	}
	return false
}

// isNoise reports whether this type is tool scaffolding rather than conversation
func (lt LineType) isNoise() bool {
	switch lt {
	case ToolCall, ToolOutput, Progress:
		return true
	}
	return false
}
