package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyFlow     llmCtxKey = "llm_flow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

func WithFlow(ctx context.Context, flow string) context.Context {
	if ctx == nil {
		return nil
	}
	f := strings.TrimSpace(flow)
	if f == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyFlow, f)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithFlowProvider(ctx context.Context, flow, provider string) context.Context {
	return WithProvider(WithFlow(ctx, flow), provider)
}

// FlowFromContext returns the flow label for LLM metrics, "unknown" when unset.
func FlowFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyFlow)
}

func ProviderFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyProvider)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
