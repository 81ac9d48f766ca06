package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"civic-writer-api/internal/domain/entity"
	apperrors "civic-writer-api/pkg/errors"
)

type scriptedModel struct {
	out  *schema.Message
	err  error
	opts *model.Options
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return m.out, m.err
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type modelFactory struct{ m model.BaseChatModel }

func (f modelFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.m, nil
}

func TestGeneratorUsesFlowModelAndTemperature(t *testing.T) {
	msg := schema.AssistantMessage("보도자료", nil)
	msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 12, CompletionTokens: 34}}
	m := &scriptedModel{out: msg}

	out, err := NewGenerator(modelFactory{m}, testFlows()).Generate(context.Background(), entity.FlowPressRelease, "역할", "프롬프트")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Content != "보도자료" || out.Meta.PromptTokens != 12 || out.Meta.CompletionTokens != 34 {
		t.Fatalf("out = %+v", out)
	}
	if m.opts.Model == nil || *m.opts.Model != "gpt-4o" {
		t.Fatalf("model option = %v", m.opts.Model)
	}
	if m.opts.Temperature == nil || *m.opts.Temperature != float32(0.7) {
		t.Fatalf("temperature option = %v", m.opts.Temperature)
	}
}

func TestGeneratorReturnsBlankCompletionUnchanged(t *testing.T) {
	m := &scriptedModel{out: schema.AssistantMessage(" \n ", nil)}
	out, err := NewGenerator(modelFactory{m}, testFlows()).Generate(context.Background(), entity.FlowSpeech, "r", "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Content != " \n " {
		t.Fatalf("content = %q", out.Content)
	}
}

func TestGeneratorWrapsFailures(t *testing.T) {
	cases := []struct {
		name string
		m    *scriptedModel
	}{
		{"provider error", &scriptedModel{err: errors.New("429 rate limit")}},
		{"nil message", &scriptedModel{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGenerator(modelFactory{tc.m}, testFlows()).Generate(context.Background(), entity.FlowSpeech, "r", "p")
			if apperrors.AsAppError(err).Code != apperrors.CodeGenerationFailed {
				t.Fatalf("expected CodeGenerationFailed, got %v", err)
			}
		})
	}
}
