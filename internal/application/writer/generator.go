package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civic-writer-api/internal/config"
	"civic-writer-api/internal/domain/entity"
	workflowchain "civic-writer-api/internal/workflow/chain"
	wfmodel "civic-writer-api/internal/workflow/model"
	workflowport "civic-writer-api/internal/workflow/port"
	apperrors "civic-writer-api/pkg/errors"
)

// TextGenerator sends a role instruction and a prompt to the model.
type TextGenerator interface {
	Generate(ctx context.Context, flow entity.FlowID, roleInstruction, prompt string) (*wfmodel.GenerationOutput, error)
}

// Generator is the TextGenerator backed by the configured chat models.
// Each call is a single attempt.
type Generator struct {
	chain *workflowchain.GenerationChain
	flows config.FlowsConfig
}

func NewGenerator(factory workflowport.ChatModelFactory, flows config.FlowsConfig) *Generator {
	return &Generator{
		chain: workflowchain.NewGenerationChain(factory),
		flows: flows,
	}
}

// Generate returns the first completion unmodified. Every failure is reported
// as CodeGenerationFailed carrying the underlying message as detail.
func (g *Generator) Generate(ctx context.Context, flow entity.FlowID, roleInstruction, prompt string) (*wfmodel.GenerationOutput, error) {
	if g == nil || g.chain == nil {
		return nil, generationFailed(fmt.Errorf("generator not configured"))
	}
	cfg, ok := flowConfig(g.flows, flow)
	if !ok {
		return nil, apperrors.ErrFlowNotFound.WithDetail(string(flow))
	}

	temperature := float32(cfg.Temperature)
	in := &wfmodel.GenerationInput{
		Flow:            string(flow),
		RoleInstruction: roleInstruction,
		Prompt:          prompt,
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		Temperature:     &temperature,
	}

	outMsg, err := g.chain.Invoke(ctx, in)
	if err != nil {
		return nil, generationFailed(err)
	}
	meta := wfmodel.LLMUsageMeta{
		Provider:    strings.TrimSpace(in.Provider),
		Model:       strings.TrimSpace(in.Model),
		Temperature: float64(temperature),
		GeneratedAt: time.Now().UTC(),
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	return &wfmodel.GenerationOutput{
		Content: outMsg.Content,
		Meta:    meta,
	}, nil
}

func generationFailed(err error) error {
	return apperrors.ErrGenerationFailed.WithError(err).WithDetail(err.Error())
}

func flowConfig(flows config.FlowsConfig, flow entity.FlowID) (config.FlowConfig, bool) {
	switch flow {
	case entity.FlowSpeech:
		return flows.Speech, true
	case entity.FlowPressRelease:
		return flows.PressRelease, true
	default:
		return config.FlowConfig{}, false
	}
}
