// Package router wires the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civic-writer-api/internal/config"
	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/interfaces/http/handler"
	"civic-writer-api/internal/interfaces/http/middleware"
)

// RouterHandlers groups the handlers the router mounts.
type RouterHandlers struct {
	Health       *handler.HealthHandler
	Speech       *handler.SpeechHandler
	PressRelease *handler.PressReleaseHandler
	Download     *handler.DownloadHandler
}

type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers RouterHandlers
	limiter  middleware.RateLimiter
}

// New builds the engine. limiter may be nil, which disables rate limiting.
func New(cfg *config.Config, handlers RouterHandlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Session())
}

func (r *Router) setupRoutes() {
	h := r.handlers

	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	rl := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		Burst:             r.cfg.Security.RateLimit.Burst,
	}, r.limiter)

	// Pages
	r.engine.GET("/", handler.Index)
	r.engine.GET("/speech", h.Speech.Page)
	r.engine.POST("/speech", rl, h.Speech.Submit)
	r.engine.POST("/speech/download", h.Download.Form(entity.FlowSpeech))
	r.engine.GET("/press-release", h.PressRelease.Page)
	r.engine.POST("/press-release", rl, h.PressRelease.Submit)
	r.engine.POST("/press-release/download", h.Download.Form(entity.FlowPressRelease))

	v1 := r.engine.Group("/v1")
	flows := v1.Group("/flows")
	{
		speech := flows.Group("/speech")
		{
			speech.GET("/options", h.Speech.Options)
			speech.POST("/prompt", h.Speech.Prompt)
			speech.POST("/generations", rl, h.Speech.Generate)
		}

		press := flows.Group("/press-release")
		{
			press.POST("/prompt", h.PressRelease.Prompt)
			press.POST("/generations", rl, h.PressRelease.Generate)
		}

		flows.POST("/:flow/download", h.Download.Download)
	}
}
