package writer

import (
	"strings"
	"time"

	"civic-writer-api/internal/config"
	"civic-writer-api/internal/domain/entity"
	apperrors "civic-writer-api/pkg/errors"
)

const inlineErrorPrefix = "⚠️ GPT 호출 실패: "

// ResultView is what the result panel shows for a flow.
type ResultView struct {
	Text         string
	Downloadable bool
	Filename     string
	GeneratedAt  time.Time
}

// Present shows the placeholder until a result exists. Results are shown
// exactly as generated.
func Present(state entity.FlowState, cfg config.FlowConfig) ResultView {
	if !state.HasResult() {
		return ResultView{Text: cfg.Placeholder}
	}
	return ResultView{
		Text:         state.Result,
		Downloadable: true,
		Filename:     cfg.Filename,
		GeneratedAt:  state.GeneratedAt,
	}
}

// RestoreState rebuilds the state from a result echoed back by the client.
// An echoed placeholder counts as no result.
func RestoreState(flow entity.FlowID, cfg config.FlowConfig, previous string) entity.FlowState {
	state := entity.FlowState{Flow: flow}
	if strings.TrimSpace(previous) == "" || strings.TrimSpace(previous) == strings.TrimSpace(cfg.Placeholder) {
		return state
	}
	state.Result = previous
	return state
}

// Download returns the attachment for the current result, or
// CodeResultNotFound when nothing has been generated yet.
func Download(state entity.FlowState, cfg config.FlowConfig) (filename string, body []byte, err error) {
	view := Present(state, cfg)
	if !view.Downloadable {
		return "", nil, apperrors.ErrResultNotFound.WithDetail(string(state.Flow))
	}
	return view.Filename, []byte(view.Text), nil
}

// InlineError is the message shown next to the form after a failed action.
func InlineError(err error) string {
	if err == nil {
		return ""
	}
	appErr := apperrors.AsAppError(err)
	cause := appErr.Message
	if appErr.Err != nil {
		cause = appErr.Err.Error()
	}
	return inlineErrorPrefix + cause
}
