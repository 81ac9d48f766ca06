package dto

import (
	"time"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/domain/entity"
)

// FlowStateResponse is the flow state after an action, as the result panel
// shows it. Clients echo Result back as previous_result on the next action.
type FlowStateResponse struct {
	Flow         string `json:"flow"`
	Prompt       string `json:"prompt,omitempty"`
	Result       string `json:"result,omitempty"`
	Display      string `json:"display"`
	Downloadable bool   `json:"downloadable"`
	Filename     string `json:"filename,omitempty"`
	GeneratedAt  string `json:"generated_at,omitempty"`
}

func NewFlowStateResponse(state entity.FlowState, view writer.ResultView) FlowStateResponse {
	resp := FlowStateResponse{
		Flow:         string(state.Flow),
		Prompt:       state.Prompt,
		Result:       state.Result,
		Display:      view.Text,
		Downloadable: view.Downloadable,
		Filename:     view.Filename,
	}
	if !state.GeneratedAt.IsZero() {
		resp.GeneratedAt = state.GeneratedAt.Format(time.RFC3339)
	}
	return resp
}

// DownloadRequest carries the displayed result to turn into an attachment.
type DownloadRequest struct {
	Result string `json:"result" form:"result"`
}
