package writer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"civic-writer-api/internal/config"
	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/domain/repository"
	workflowprompt "civic-writer-api/internal/workflow/prompt"
	apperrors "civic-writer-api/pkg/errors"
	"civic-writer-api/pkg/logger"
	"civic-writer-api/pkg/metrics"
	"civic-writer-api/pkg/tracer"
)

// SpeechOptions lists the selectable values of the speech form.
type SpeechOptions struct {
	Greetings       []string `json:"greetings"`
	Speakers        []string `json:"speakers"`
	Audiences       []string `json:"audiences"`
	SecondAudiences []string `json:"second_audiences"`
	Seasons         []string `json:"seasons"`
	Quotes          []string `json:"quotes"`
	Disasters       []string `json:"disasters"`
}

// GuardOptions configures the per-session submission guard. A nil Guard
// disables it.
type GuardOptions struct {
	Guard repository.SubmissionGuard
	TTL   time.Duration
}

// FlowService runs one user action of a flow at a time. It keeps no state
// between calls; the caller passes in the previous FlowState.
type FlowService struct {
	flows     config.FlowsConfig
	assembler *PressReleaseAssembler
	generator TextGenerator
	guard     GuardOptions
	now       func() time.Time
}

func NewFlowService(flows config.FlowsConfig, assembler *PressReleaseAssembler, generator TextGenerator, guard GuardOptions) *FlowService {
	return &FlowService{
		flows:     flows,
		assembler: assembler,
		generator: generator,
		guard:     guard,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *FlowService) SpeechOptions() SpeechOptions {
	return SpeechOptions{
		Greetings:       entity.Strings(entity.GreetingTypes),
		Speakers:        entity.Strings(entity.Speakers),
		Audiences:       entity.Strings(entity.Audiences),
		SecondAudiences: entity.Strings(entity.SecondAudiences),
		Seasons:         entity.Strings(entity.Seasons),
		Quotes:          entity.Strings(entity.QuoteStyles),
		Disasters:       entity.Strings(entity.DisasterContexts),
	}
}

// FlowConfig returns the presentation settings of a flow.
func (s *FlowService) FlowConfig(flow entity.FlowID) (config.FlowConfig, error) {
	cfg, ok := flowConfig(s.flows, flow)
	if !ok {
		return config.FlowConfig{}, apperrors.ErrFlowNotFound.WithDetail(string(flow))
	}
	return cfg, nil
}

// SpeechPrompt fills unset selections with the form defaults and assembles
// the editable speech prompt.
func (s *FlowService) SpeechPrompt(ctx context.Context, req entity.SpeechRequest) (string, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		metrics.PromptAssemblyTotal.WithLabelValues(string(entity.FlowSpeech), "invalid").Inc()
		return "", apperrors.ErrInvalidParam.WithError(err).WithDetail(err.Error())
	}
	metrics.PromptAssemblyTotal.WithLabelValues(string(entity.FlowSpeech), "success").Inc()
	return BuildSpeechPrompt(req), nil
}

func (s *FlowService) PressReleasePrompt(ctx context.Context, req entity.PressReleaseRequest) (string, error) {
	if s.assembler == nil {
		return "", apperrors.ErrInternalError.WithDetail("press release assembler not configured")
	}
	out, err := s.assembler.Build(ctx, req)
	if err != nil {
		metrics.PromptAssemblyTotal.WithLabelValues(string(entity.FlowPressRelease), "error").Inc()
		return "", err
	}
	metrics.PromptAssemblyTotal.WithLabelValues(string(entity.FlowPressRelease), "success").Inc()
	return out, nil
}

// GeneratePressRelease assembles the press-release prompt and submits it.
// An assembly failure leaves prev unchanged like a generation failure does.
func (s *FlowService) GeneratePressRelease(ctx context.Context, sessionID string, req entity.PressReleaseRequest, prev entity.FlowState) (entity.FlowState, error) {
	prompt, err := s.PressReleasePrompt(ctx, req)
	if err != nil {
		return prev, err
	}
	return s.Submit(ctx, sessionID, entity.FlowPressRelease, prompt, prev)
}

// Submit sends prompt to the model for flow. On success the returned state
// holds the new result; on any failure prev is returned unchanged with the
// error.
func (s *FlowService) Submit(ctx context.Context, sessionID string, flow entity.FlowID, prompt string, prev entity.FlowState) (entity.FlowState, error) {
	ctx = logger.WithContext(ctx, logger.FlowKey, string(flow))
	ctx, span := tracer.Start(ctx, "writer.FlowService.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("writer.flow", string(flow)),
		attribute.Int("writer.prompt_chars", utf8.RuneCountInString(prompt)),
	)

	role, err := roleInstruction(flow)
	if err != nil {
		return prev, err
	}
	if strings.TrimSpace(prompt) == "" {
		return prev, apperrors.ErrInvalidParam.WithDetail("prompt is required")
	}

	release, err := s.acquire(ctx, sessionID, flow)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(flow), "rejected").Inc()
		span.SetStatus(codes.Error, "submission rejected")
		return prev, err
	}
	defer release()

	metrics.ActiveGenerations.WithLabelValues(string(flow)).Inc()
	defer metrics.ActiveGenerations.WithLabelValues(string(flow)).Dec()

	start := time.Now()
	out, err := s.generator.Generate(ctx, flow, role, prompt)
	metrics.GenerationDuration.WithLabelValues(string(flow)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(flow), "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		logger.Error(ctx, "generation failed", err)
		return prev, err
	}

	metrics.GenerationTotal.WithLabelValues(string(flow), "success").Inc()
	metrics.GeneratedCharacters.WithLabelValues(string(flow)).Observe(float64(utf8.RuneCountInString(out.Content)))
	logger.Info(ctx, "generation completed",
		"provider", out.Meta.Provider,
		"model", out.Meta.Model,
		"prompt_tokens", out.Meta.PromptTokens,
		"completion_tokens", out.Meta.CompletionTokens,
	)

	return entity.FlowState{
		Flow:        flow,
		Prompt:      prompt,
		Result:      out.Content,
		GeneratedAt: s.now(),
	}, nil
}

// acquire takes the guard slot for (session, flow). A guard backend error is
// logged and the submission proceeds unguarded.
func (s *FlowService) acquire(ctx context.Context, sessionID string, flow entity.FlowID) (func(), error) {
	noop := func() {}
	if s.guard.Guard == nil || strings.TrimSpace(sessionID) == "" {
		return noop, nil
	}

	key := fmt.Sprintf("submission:%s:%s", sessionID, flow)
	token, ok, err := s.guard.Guard.Acquire(ctx, key, s.guard.TTL)
	if err != nil {
		logger.Warn(ctx, "submission guard unavailable", "error", err.Error())
		return noop, nil
	}
	if !ok {
		return nil, apperrors.ErrGenerationInProgress.WithDetail(string(flow))
	}
	return func() {
		if err := s.guard.Guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Warn(ctx, "submission guard release failed", "error", err.Error())
		}
	}, nil
}

func roleInstruction(flow entity.FlowID) (string, error) {
	var id workflowprompt.RoleID
	switch flow {
	case entity.FlowSpeech:
		id = workflowprompt.RoleSpeech
	case entity.FlowPressRelease:
		id = workflowprompt.RolePressRelease
	default:
		return "", apperrors.ErrFlowNotFound.WithDetail(string(flow))
	}
	text, err := workflowprompt.RoleInstruction(id)
	if err != nil {
		return "", apperrors.ErrInternalError.WithError(err)
	}
	return text, nil
}
