// Package llm builds eino chat models for the configured providers.
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"civic-writer-api/internal/config"
)

// ChatModelBuilder creates a chat model for one provider entry.
type ChatModelBuilder func(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error)

// EinoFactory lazily creates and caches one chat model per provider.
type EinoFactory struct {
	config *config.LLMConfig
	build  ChatModelBuilder
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return NewEinoFactoryWithBuilder(&cfg.LLM, newOpenAIChatModel)
}

func NewEinoFactoryWithBuilder(cfg *config.LLMConfig, build ChatModelBuilder) *EinoFactory {
	return &EinoFactory{
		config: cfg,
		build:  build,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get returns the chat model of the named provider, or of the default
// provider when name is empty.
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %s has no api key configured", name)
	}

	chatModel, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

func newOpenAIChatModel(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	mc := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}
	if cfg.MaxTokens > 0 {
		mc.MaxTokens = ptr(cfg.MaxTokens)
	}
	if cfg.Temperature > 0 {
		mc.Temperature = ptr(float32(cfg.Temperature))
	}
	return openai.NewChatModel(ctx, mc)
}

func ptr[T any](v T) *T {
	return &v
}
