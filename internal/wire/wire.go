//go:build wireinject
// +build wireinject

// Package wire assembles the application.
package wire

import (
	"context"

	"github.com/google/wire"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/config"
	"civic-writer-api/internal/infrastructure/llm"
	"civic-writer-api/internal/interfaces/http/handler"
	"civic-writer-api/internal/interfaces/http/router"
	"civic-writer-api/internal/workflow/port"
)

// InitializeApp builds the router with all of its dependencies.
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		InfraSet,
		WriterSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InfraSet holds the backends. Redis is optional.
var InfraSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
	ProvideGuardOptions,
	ProvideTemplateSource,
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
)

var WriterSet = wire.NewSet(
	ProvidePressReleaseAssembler,
	ProvideGenerator,
	wire.Bind(new(writer.TextGenerator), new(*writer.Generator)),
	ProvideFlowService,
)

var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewSpeechHandler,
	handler.NewPressReleaseHandler,
	handler.NewDownloadHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.New,
)
