package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "civic-writer-api/internal/domain/service"
	wfmodel "civic-writer-api/internal/workflow/model"
)

type recordingModel struct {
	msgs []*schema.Message
	opts *model.Options
	flow string
	out  *schema.Message
	err  error
}

func (m *recordingModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.msgs = input
	m.opts = model.GetCommonOptions(&model.Options{}, opts...)
	m.flow = llmctx.FlowFromContext(ctx)
	return m.out, m.err
}

func (m *recordingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type staticFactory struct {
	m    model.BaseChatModel
	err  error
	name string
}

func (f *staticFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	f.name = name
	return f.m, f.err
}

func TestGenerationChainInvoke(t *testing.T) {
	fake := &recordingModel{out: schema.AssistantMessage("완성된 연설문", nil)}
	factory := &staticFactory{m: fake}
	temp := float32(0.7)

	out, err := NewGenerationChain(factory).Invoke(context.Background(), &wfmodel.GenerationInput{
		Flow:            "speech",
		RoleInstruction: "역할 지시",
		Prompt:          "『행사』의 성격은 대중적입니다.",
		Provider:        "openai",
		Model:           "gpt-3.5-turbo",
		Temperature:     &temp,
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Content != "완성된 연설문" {
		t.Fatalf("content = %q", out.Content)
	}
	if factory.name != "openai" {
		t.Fatalf("provider = %q", factory.name)
	}
	if len(fake.msgs) != 2 || fake.msgs[0].Role != schema.System || fake.msgs[1].Role != schema.User {
		t.Fatalf("messages = %+v", fake.msgs)
	}
	if fake.msgs[0].Content != "역할 지시" || fake.msgs[1].Content != "『행사』의 성격은 대중적입니다." {
		t.Fatalf("messages = %+v", fake.msgs)
	}
	if fake.opts.Temperature == nil || *fake.opts.Temperature != 0.7 {
		t.Fatalf("temperature option missing")
	}
	if fake.opts.Model == nil || *fake.opts.Model != "gpt-3.5-turbo" {
		t.Fatalf("model option missing")
	}
	if fake.flow != "speech" {
		t.Fatalf("flow label = %q", fake.flow)
	}
}

func TestGenerationChainErrors(t *testing.T) {
	boom := errors.New("401 unauthorized")
	cases := []struct {
		name    string
		factory *staticFactory
		in      *wfmodel.GenerationInput
	}{
		{"nil input", &staticFactory{m: &recordingModel{}}, nil},
		{"empty prompt", &staticFactory{m: &recordingModel{}}, &wfmodel.GenerationInput{Prompt: "  "}},
		{"factory error", &staticFactory{err: boom}, &wfmodel.GenerationInput{Prompt: "p"}},
		{"model error", &staticFactory{m: &recordingModel{err: boom}}, &wfmodel.GenerationInput{Prompt: "p"}},
		{"nil response", &staticFactory{m: &recordingModel{}}, &wfmodel.GenerationInput{Prompt: "p"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGenerationChain(tc.factory).Invoke(context.Background(), tc.in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
