package chain

import (
	"context"
	"fmt"
	"strings"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "civic-writer-api/internal/domain/service"
	wfmodel "civic-writer-api/internal/workflow/model"
	workflowport "civic-writer-api/internal/workflow/port"
	workflowprompt "civic-writer-api/internal/workflow/prompt"
)

type GenerationChain struct {
	factory workflowport.ChatModelFactory
}

func NewGenerationChain(factory workflowport.ChatModelFactory) *GenerationChain {
	return &GenerationChain{factory: factory}
}

// Invoke sends one [system, user] exchange and returns the first choice.
func (c *GenerationChain) Invoke(ctx context.Context, in *wfmodel.GenerationInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	provider := strings.TrimSpace(in.Provider)
	ctx = llmctx.WithFlowProvider(ctx, in.Flow, provider)
	chatModel, err := c.factory.Get(ctx, provider)
	if err != nil {
		return nil, err
	}

	msgs, err := formatGenerationMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      strings.TrimSpace(in.Flow),
		Type:      provider,
		Component: components.ComponentOfChatModel,
	})
	outMsg, err := chatModel.Generate(ctx, msgs, buildGenerationModelOptions(in)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

var generationPromptRegistry = workflowprompt.NewRegistry()

func formatGenerationMessages(ctx context.Context, in *wfmodel.GenerationInput) ([]*schema.Message, error) {
	tpl, err := generationPromptRegistry.ChatTemplate(workflowprompt.PromptGenerationV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"role_instruction": strings.TrimSpace(in.RoleInstruction),
		"prompt":           in.Prompt,
	}
	return tpl.Format(ctx, vars)
}

func buildGenerationModelOptions(in *wfmodel.GenerationInput) []model.Option {
	opts := make([]model.Option, 0, 2)
	if in == nil {
		return opts
	}
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}
	return opts
}
