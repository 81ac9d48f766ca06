package entity

import (
	"strings"
	"time"
)

// FlowID identifies one of the generator flows.
type FlowID string

const (
	FlowSpeech       FlowID = "speech"
	FlowPressRelease FlowID = "press-release"
)

// Flows lists every flow in navigation order.
var Flows = []FlowID{FlowSpeech, FlowPressRelease}

// ParseFlowID resolves a path segment to a FlowID.
func ParseFlowID(s string) (FlowID, bool) {
	switch FlowID(strings.TrimSpace(s)) {
	case FlowSpeech:
		return FlowSpeech, true
	case FlowPressRelease, "press_release":
		return FlowPressRelease, true
	default:
		return "", false
	}
}

// Title is the heading shown for the flow.
func (f FlowID) Title() string {
	switch f {
	case FlowSpeech:
		return "인사말씀 생성기"
	case FlowPressRelease:
		return "보도자료 생성기"
	default:
		return string(f)
	}
}

// FlowState is the state of one flow as seen by a single user action. It is
// passed in by the caller (the previously displayed result) and handed back
// with either the new result or the unchanged previous one.
type FlowState struct {
	Flow        FlowID    `json:"flow"`
	Prompt      string    `json:"prompt"`
	Result      string    `json:"result"`
	GeneratedAt time.Time `json:"generated_at"`
}

// HasResult reports whether a generation has produced text for this flow.
func (s FlowState) HasResult() bool {
	return strings.TrimSpace(s.Result) != ""
}
