// Package web renders the HTML pages of the writer. Components live in
// pages.templ.
package web

//go:generate go run github.com/a-h/templ/cmd/templ generate

import (
	"github.com/a-h/templ"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/domain/entity"
)

const pageTitle = "AI 자동 작성기"

var flowIcons = map[entity.FlowID]string{
	entity.FlowSpeech:       "🎤",
	entity.FlowPressRelease: "📰",
}

func navLabel(flow entity.FlowID) string {
	if icon, ok := flowIcons[flow]; ok {
		return icon + " " + flow.Title()
	}
	return flow.Title()
}

func flowURL(flow entity.FlowID) templ.SafeURL {
	return templ.URL("/" + string(flow))
}

// SpeechPageData is everything the speech page shows.
type SpeechPageData struct {
	Selection entity.SpeechRequest
	Options   writer.SpeechOptions
	Prompt    string
	Result    writer.ResultView
	// PreviousResult is the raw result echoed on the next submit.
	PreviousResult string
	Error          string
}

// PressReleasePageData is everything the press-release page shows.
type PressReleasePageData struct {
	Form           entity.PressReleaseRequest
	Result         writer.ResultView
	PreviousResult string
	Error          string
}
