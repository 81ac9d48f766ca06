package writer

import (
	"errors"
	"testing"
	"time"

	"civic-writer-api/internal/domain/entity"
	apperrors "civic-writer-api/pkg/errors"
)

func TestPresentWithoutResultShowsPlaceholder(t *testing.T) {
	flows := testFlows()
	cases := []struct {
		flow entity.FlowID
		want string
	}{
		{entity.FlowSpeech, "아직 생성된 연설문이 없습니다."},
		{entity.FlowPressRelease, "아직 생성된 보도자료가 없습니다."},
	}
	for _, tc := range cases {
		cfg, _ := flowConfig(flows, tc.flow)
		view := Present(entity.FlowState{Flow: tc.flow}, cfg)
		if view.Text != tc.want || view.Downloadable || view.Filename != "" {
			t.Fatalf("%s: view = %+v", tc.flow, view)
		}
		if _, _, err := Download(entity.FlowState{Flow: tc.flow}, cfg); !errors.Is(err, apperrors.ErrResultNotFound) {
			t.Fatalf("%s: expected ErrResultNotFound, got %v", tc.flow, err)
		}
	}
}

func TestPresentWithResult(t *testing.T) {
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	state := entity.FlowState{Flow: entity.FlowPressRelease, Result: "  원문 그대로\n", GeneratedAt: at}

	view := Present(state, testFlows().PressRelease)
	if view.Text != "  원문 그대로\n" || !view.Downloadable || view.Filename != "보도자료.txt" || !view.GeneratedAt.Equal(at) {
		t.Fatalf("view = %+v", view)
	}

	name, body, err := Download(state, testFlows().PressRelease)
	if err != nil || name != "보도자료.txt" || string(body) != "  원문 그대로\n" {
		t.Fatalf("Download = %q %q %v", name, body, err)
	}
}

func TestRestoreStateIgnoresEchoedPlaceholder(t *testing.T) {
	cfg := testFlows().Speech
	if s := RestoreState(entity.FlowSpeech, cfg, cfg.Placeholder); s.HasResult() {
		t.Fatalf("placeholder restored as result: %+v", s)
	}
	if s := RestoreState(entity.FlowSpeech, cfg, ""); s.HasResult() {
		t.Fatalf("empty restored as result: %+v", s)
	}
	if s := RestoreState(entity.FlowSpeech, cfg, "연설문"); s.Result != "연설문" || s.Flow != entity.FlowSpeech {
		t.Fatalf("state = %+v", s)
	}
}

func TestInlineError(t *testing.T) {
	if got := InlineError(nil); got != "" {
		t.Fatalf("InlineError(nil) = %q", got)
	}
	if got := InlineError(errors.New("timeout")); got != "⚠️ GPT 호출 실패: timeout" {
		t.Fatalf("InlineError = %q", got)
	}
	if got := InlineError(apperrors.ErrGenerationInProgress); got != "⚠️ GPT 호출 실패: "+apperrors.ErrGenerationInProgress.Message {
		t.Fatalf("InlineError = %q", got)
	}
}
