package wire

import (
	"context"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/config"
	"civic-writer-api/internal/infrastructure/local"
	"civic-writer-api/internal/infrastructure/persistence/redis"
	"civic-writer-api/internal/infrastructure/template"
	"civic-writer-api/internal/interfaces/http/handler"
	"civic-writer-api/internal/interfaces/http/middleware"
	"civic-writer-api/internal/workflow/port"
	"civic-writer-api/pkg/logger"
)

// Version is reported by the health endpoint.
var Version = "dev"

// ProvideRedisClientOptional connects to Redis when enabled. An unreachable
// Redis is logged and the in-process fallbacks are used instead.
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, using in-process rate limiter and guard", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return local.NewRateLimiter()
	}
	return redis.NewRateLimiter(client)
}

func ProvideGuardOptions(cfg *config.Config, client *redis.Client) writer.GuardOptions {
	feature := cfg.Features.SubmissionGuard
	if !feature.Enabled {
		return writer.GuardOptions{}
	}
	if client == nil {
		return writer.GuardOptions{Guard: local.NewSubmissionGuard(), TTL: feature.TTL}
	}
	return writer.GuardOptions{Guard: redis.NewSubmissionGuard(client), TTL: feature.TTL}
}

func ProvideTemplateSource(cfg *config.Config) *template.FileSource {
	return template.NewFileSource(cfg.Templates.Dir)
}

func ProvidePressReleaseAssembler(cfg *config.Config, source *template.FileSource) *writer.PressReleaseAssembler {
	return writer.NewPressReleaseAssembler(source, cfg.Flows.PressRelease.Template)
}

func ProvideGenerator(cfg *config.Config, factory port.ChatModelFactory) *writer.Generator {
	return writer.NewGenerator(factory, cfg.Flows)
}

func ProvideFlowService(cfg *config.Config, assembler *writer.PressReleaseAssembler, generator writer.TextGenerator, guard writer.GuardOptions) *writer.FlowService {
	return writer.NewFlowService(cfg.Flows, assembler, generator, guard)
}

// ProvideHealthHandler checks the press-release template and, when
// configured, Redis.
func ProvideHealthHandler(cfg *config.Config, client *redis.Client, source *template.FileSource) *handler.HealthHandler {
	checks := map[string]handler.HealthChecker{
		"template": handler.HealthCheckFunc(func(ctx context.Context) error {
			return source.HealthCheck(ctx, cfg.Flows.PressRelease.Template)
		}),
	}
	if cfg.Cache.Redis.Enabled {
		if client != nil {
			checks["redis"] = client
		} else {
			checks["redis"] = nil
		}
	}
	return handler.NewHealthHandler(Version, checks)
}
