package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/config"
	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/interfaces/http/dto"
	wfmodel "civic-writer-api/internal/workflow/model"
	apperrors "civic-writer-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	mu      sync.Mutex
	content string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, flow entity.FlowID, role, prompt string) (*wfmodel.GenerationOutput, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.err != nil {
		return nil, apperrors.ErrGenerationFailed.WithError(g.err).WithDetail(g.err.Error())
	}
	return &wfmodel.GenerationOutput{Content: g.content}, nil
}

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type stubTemplates map[string]string

func (s stubTemplates) Load(ctx context.Context, name string) (string, error) {
	t, ok := s[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return t, nil
}

var testFlows = config.FlowsConfig{
	Speech: config.FlowConfig{
		Filename:    "연설문.txt",
		Placeholder: "아직 생성된 연설문이 없습니다.",
	},
	PressRelease: config.FlowConfig{
		Filename:    "보도자료.txt",
		Placeholder: "아직 생성된 보도자료가 없습니다.",
		Template:    "template_보도.txt",
	},
}

func newTestEngine(gen *stubGenerator, templates stubTemplates) *gin.Engine {
	assembler := writer.NewPressReleaseAssembler(templates, testFlows.PressRelease.Template)
	svc := writer.NewFlowService(testFlows, assembler, gen, writer.GuardOptions{})

	speech := NewSpeechHandler(svc)
	press := NewPressReleaseHandler(svc)
	download := NewDownloadHandler(svc)

	r := gin.New()
	r.GET("/", Index)
	r.GET("/speech", speech.Page)
	r.POST("/speech", speech.Submit)
	r.POST("/speech/download", download.Form(entity.FlowSpeech))
	r.GET("/press-release", press.Page)
	r.POST("/press-release", press.Submit)
	r.POST("/press-release/download", download.Form(entity.FlowPressRelease))
	r.GET("/v1/flows/speech/options", speech.Options)
	r.POST("/v1/flows/speech/prompt", speech.Prompt)
	r.POST("/v1/flows/speech/generations", speech.Generate)
	r.POST("/v1/flows/press-release/prompt", press.Prompt)
	r.POST("/v1/flows/press-release/generations", press.Generate)
	r.POST("/v1/flows/:flow/download", download.Download)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) dto.FlowStateResponse {
	t.Helper()
	var resp struct {
		Data dto.FlowStateResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return resp.Data
}

func TestIndexRedirectsToSpeech(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/speech" {
		t.Fatalf("code=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestSpeechPageShowsDefaultsAndPlaceholder(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/speech", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type=%q", ct)
	}
	body := w.Body.String()
	want := templ.EscapeString(writer.BuildSpeechPrompt(entity.DefaultSpeechRequest()))
	if !strings.Contains(body, want) {
		t.Fatalf("default prompt missing from page")
	}
	if !strings.Contains(body, "아직 생성된 연설문이 없습니다.") {
		t.Fatalf("placeholder missing")
	}
	if strings.Contains(body, `action="/speech/download"`) {
		t.Fatalf("download offered before any result")
	}
}

func TestSpeechSubmitPreviewRebuildsPrompt(t *testing.T) {
	gen := &stubGenerator{}
	r := newTestEngine(gen, nil)

	w := doForm(r, "/speech", url.Values{
		"action":   {"preview"},
		"title":    {"봄맞이 행사"},
		"season":   {"가을"},
		"prompt":   {"stale"},
		"disaster": {"재난복구"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "『봄맞이 행사』") || !strings.Contains(body, "계절적 요소인 가을에") {
		t.Fatalf("prompt not rebuilt from selections")
	}
	if strings.Contains(body, ">stale<") {
		t.Fatalf("stale prompt kept on preview")
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("preview must not call the model")
	}
}

func TestSpeechSubmitGenerateUsesEditedPrompt(t *testing.T) {
	gen := &stubGenerator{content: "존경하는 시민 여러분"}
	r := newTestEngine(gen, nil)

	w := doForm(r, "/speech", url.Values{
		"action": {"generate"},
		"prompt": {"사용자가 고친 프롬프트"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	if gen.lastPrompt() != "사용자가 고친 프롬프트" {
		t.Fatalf("model got %q", gen.lastPrompt())
	}
	body := w.Body.String()
	if !strings.Contains(body, "존경하는 시민 여러분") {
		t.Fatalf("result missing")
	}
	if !strings.Contains(body, `action="/speech/download"`) {
		t.Fatalf("download not offered after generation")
	}
}

func TestSpeechSubmitFailureKeepsPreviousResult(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	r := newTestEngine(gen, nil)

	w := doForm(r, "/speech", url.Values{
		"action":          {"generate"},
		"prompt":          {"p"},
		"previous_result": {"이전 연설문"},
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("code=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "⚠️ GPT 호출 실패: quota exceeded") {
		t.Fatalf("inline error missing: %s", body)
	}
	if !strings.Contains(body, "이전 연설문") {
		t.Fatalf("previous result dropped")
	}
}

func TestSpeechOptionsJSON(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)
	w := doJSON(t, r, http.MethodGet, "/v1/flows/speech/options", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}

	var resp struct {
		Data writer.SpeechOptions `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Quotes) != 5 || resp.Data.Quotes[0] != "없음" {
		t.Fatalf("quotes=%v", resp.Data.Quotes)
	}
}

func TestSpeechPromptJSON(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/flows/speech/prompt", dto.SpeechSelection{Title: "T"})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	var resp struct {
		Data dto.SpeechPromptResponse `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	req := entity.DefaultSpeechRequest()
	req.Title = "T"
	if resp.Data.Prompt != writer.BuildSpeechPrompt(req) {
		t.Fatalf("prompt=%q", resp.Data.Prompt)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/flows/speech/prompt", dto.SpeechSelection{Season: "장마"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown option code=%d", w.Code)
	}
}

func TestSpeechGenerateJSON(t *testing.T) {
	gen := &stubGenerator{content: "결과"}
	r := newTestEngine(gen, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/flows/speech/generations", dto.SpeechGenerateRequest{Prompt: "p"})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	state := decodeState(t, w)
	if state.Result != "결과" || !state.Downloadable || state.Filename != "연설문.txt" {
		t.Fatalf("state=%+v", state)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/flows/speech/generations", dto.SpeechGenerateRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing prompt code=%d", w.Code)
	}
}

func TestSpeechGenerateJSONFailureReturnsPreviousState(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	r := newTestEngine(gen, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/flows/speech/generations", dto.SpeechGenerateRequest{
		Prompt:         "p",
		PreviousResult: "old",
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("code=%d", w.Code)
	}
	var resp struct {
		Error dto.ErrorDetail       `json:"error"`
		Data  dto.FlowStateResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Result != "old" || resp.Error.ErrorCode != string(apperrors.CodeGenerationFailed) {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestPressReleaseGenerateJSON(t *testing.T) {
	gen := &stubGenerator{content: "보도자료 본문"}
	templates := stubTemplates{"template_보도.txt": "제목:{title} 담당:{person} 연락:{contact} 내용:{content}"}
	r := newTestEngine(gen, templates)

	w := doJSON(t, r, http.MethodPost, "/v1/flows/press-release/generations", dto.PressReleaseForm{
		Title:   "봄꽃축제",
		Person:  "홍길동",
		Content: "4월 개최",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	if got, want := gen.lastPrompt(), "제목:봄꽃축제 담당:홍길동 연락: 내용:4월 개최"; got != want {
		t.Fatalf("prompt=%q want %q", got, want)
	}
	if state := decodeState(t, w); state.Result != "보도자료 본문" || state.Filename != "보도자료.txt" {
		t.Fatalf("state=%+v", state)
	}
}

func TestPressReleaseMissingTemplate(t *testing.T) {
	gen := &stubGenerator{content: "x"}
	r := newTestEngine(gen, stubTemplates{})

	w := doJSON(t, r, http.MethodPost, "/v1/flows/press-release/prompt", dto.PressReleaseForm{Title: "t"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", w.Code)
	}

	w = doForm(r, "/press-release", url.Values{"title": {"t"}, "previous_result": {"지난 보도자료"}})
	body := w.Body.String()
	if !strings.Contains(body, "⚠️ GPT 호출 실패") || !strings.Contains(body, "지난 보도자료") {
		t.Fatalf("page should keep previous result with inline error")
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("model called despite template error")
	}
}

func TestPressReleasePageSubmit(t *testing.T) {
	gen := &stubGenerator{content: "1. 추천 제목"}
	r := newTestEngine(gen, stubTemplates{"template_보도.txt": "{title}|{person}|{contact}|{content}"})

	w := doForm(r, "/press-release", url.Values{"title": {"a"}, "person": {"b"}, "contact": {"c"}, "content": {"d"}})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	if gen.lastPrompt() != "a|b|c|d" {
		t.Fatalf("prompt=%q", gen.lastPrompt())
	}
	body := w.Body.String()
	if !strings.Contains(body, "1. 추천 제목") || !strings.Contains(body, `action="/press-release/download"`) {
		t.Fatalf("result or download missing")
	}
}

func TestDownload(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)

	w := doJSON(t, r, http.MethodPost, "/v1/flows/speech/download", dto.DownloadRequest{Result: "본문 그대로"})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	if got := w.Body.String(); got != "본문 그대로" {
		t.Fatalf("body=%q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "filename*=utf-8''") {
		t.Fatalf("content-disposition=%q", cd)
	}

	cases := []struct {
		name string
		path string
		body dto.DownloadRequest
		want int
	}{
		{"placeholder", "/v1/flows/speech/download", dto.DownloadRequest{Result: "아직 생성된 연설문이 없습니다."}, http.StatusNotFound},
		{"empty", "/v1/flows/press-release/download", dto.DownloadRequest{}, http.StatusNotFound},
		{"unknown flow", "/v1/flows/merit/download", dto.DownloadRequest{Result: "x"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("code=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestDownloadForm(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)

	w := doForm(r, "/speech/download", url.Values{"result": {"연설"}})
	if w.Code != http.StatusOK || w.Body.String() != "연설" {
		t.Fatalf("code=%d body=%q", w.Code, w.Body.String())
	}

	w = doForm(r, "/speech/download", url.Values{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("code=%d", w.Code)
	}
}

func TestDownloadFormFoldsCRLF(t *testing.T) {
	r := newTestEngine(&stubGenerator{}, nil)

	for _, path := range []string{"/speech/download", "/press-release/download"} {
		w := doForm(r, path, url.Values{"result": {"a\r\nb\r\n"}})
		if w.Code != http.StatusOK || w.Body.String() != "a\nb\n" {
			t.Fatalf("%s: code=%d body=%q", path, w.Code, w.Body.String())
		}
	}
}

func TestPageSubmitFoldsCRLF(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	r := newTestEngine(gen, stubTemplates{"template_보도.txt": "{title}|{content}"})

	w := doForm(r, "/speech", url.Values{
		"action":          {"generate"},
		"prompt":          {"첫 줄\r\n둘째 줄"},
		"previous_result": {"이전\r\n연설문"},
	})
	if gen.lastPrompt() != "첫 줄\n둘째 줄" {
		t.Fatalf("model got %q", gen.lastPrompt())
	}
	if body := w.Body.String(); strings.Contains(body, "\r") || !strings.Contains(body, "이전\n연설문") {
		t.Fatalf("previous result not folded: %q", body)
	}

	w = doForm(r, "/press-release", url.Values{
		"title":           {"t"},
		"content":         {"a\r\nb"},
		"previous_result": {"x\r\ny"},
	})
	if gen.lastPrompt() != "t|a\nb" {
		t.Fatalf("model got %q", gen.lastPrompt())
	}
	if body := w.Body.String(); strings.Contains(body, "\r") || !strings.Contains(body, "x\ny") {
		t.Fatalf("previous result not folded: %q", body)
	}
}

func TestReadiness(t *testing.T) {
	failing := HealthCheckFunc(func(ctx context.Context) error { return errors.New("down") })
	ok := HealthCheckFunc(func(ctx context.Context) error { return nil })

	cases := []struct {
		name   string
		checks map[string]HealthChecker
		want   int
	}{
		{"all ok", map[string]HealthChecker{"template": ok}, http.StatusOK},
		{"disabled is ok", map[string]HealthChecker{"template": ok, "redis": nil}, http.StatusOK},
		{"failing", map[string]HealthChecker{"template": failing}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler("test", tc.checks)
			r := gin.New()
			r.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if w.Code != tc.want {
				t.Fatalf("code=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}
