package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/voicebridge/api/handlers"
	"github.com/BaSui01/voicebridge/config"
	"github.com/BaSui01/voicebridge/internal/metrics"
	"github.com/BaSui01/voicebridge/internal/server"
	"github.com/BaSui01/voicebridge/internal/telemetry"
	"github.com/BaSui01/voicebridge/internal/tlsutil"
	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/llm/speech"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 VoiceBridge 的主服务器，持有 API 与 Metrics 两个端口
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	telemetry *telemetry.Providers
	registry  *prometheus.Registry
	collector *metrics.Collector

	// Handlers
	healthHandler *handlers.HealthHandler
	speechHandler *handlers.SpeechHandler
	voiceHandler  *handlers.VoiceHandler
	usageHandler  *handlers.UsageHandler
}

// NewServer 组装 ElevenLabs 适配器、计费与观测组件
func NewServer(cfg *config.Config, logger *zap.Logger, providers *telemetry.Providers) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollectorWithRegisterer("voicebridge", registry, logger)

	otelMetrics, err := observability.NewMetricsWithProviders(providers.TracerProvider(), providers.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to init speech metrics: %w", err)
	}

	// 出站连接池由 TTS 与声音管理共享，超时交给每次调用的 context
	client := tlsutil.UpstreamClient(cfg.ElevenLabs.MaxIdleConns)
	secrets := cfg.ElevenLabs.Secrets()
	speechCfg := cfg.ElevenLabs.SpeechConfig()

	tts := speech.NewElevenLabsTextToSpeech(speechCfg, secrets, logger,
		speech.WithHTTPClient(client),
		speech.WithCostCalculator(cfg.Pricing.CostCalculator()),
		speech.WithRecorder(collector),
		speech.WithMetrics(otelMetrics),
	)
	voices := speech.NewVoiceManager(speechCfg, secrets, logger,
		speech.WithHTTPClient(client),
		speech.WithRecorder(collector),
		speech.WithMetrics(otelMetrics),
	)
	tracker := observability.NewCostTracker()

	health := handlers.NewHealthHandler(logger)
	health.RegisterCheck(handlers.NewElevenLabsCheck(speechCfg, secrets))

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		telemetry:     providers,
		registry:      registry,
		collector:     collector,
		healthHandler: health,
		speechHandler: handlers.NewSpeechHandler(tts, tracker, logger),
		voiceHandler:  handlers.NewVoiceHandler(voices, logger),
		usageHandler:  handlers.NewUsageHandler(tracker),
	}

	logger.Info("Handlers initialized",
		zap.String("elevenlabs_base_url", speechCfg.BaseURL),
		zap.String("default_model", speechCfg.Model),
		zap.Bool("jwt_enabled", cfg.Server.JWT.Enabled()),
		zap.Int("api_keys", len(cfg.Server.APIKeys)),
	)
	return s, nil
}

// =============================================================================
// 🌐 路由与中间件
// =============================================================================

// skipAuthPaths 不需要认证的探针与元信息端点
var skipAuthPaths = []string{"/health", "/healthz", "/ready", "/readyz", "/version", "/metrics"}

// Handler 构建 API 路由和中间件链，ctx 结束时停止限流器的后台清理
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("GET /health", s.healthHandler.HandleLive)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleLive)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// 语音 API
	// ========================================
	mux.HandleFunc("POST /v1/audio/speech", s.speechHandler.HandleSpeech)

	mux.HandleFunc("GET /v1/voices", s.voiceHandler.HandleList)
	mux.HandleFunc("POST /v1/voices", s.voiceHandler.HandleCreate)
	mux.HandleFunc("GET /v1/voices/{voice_id}", s.voiceHandler.HandleGet)
	mux.HandleFunc("DELETE /v1/voices/{voice_id}", s.voiceHandler.HandleDelete)

	mux.HandleFunc("GET /v1/usage", s.usageHandler.HandleUsage)
	mux.HandleFunc("DELETE /v1/usage", s.usageHandler.HandleReset)

	// ========================================
	// 中间件链（外层在前）
	// ========================================
	chain := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(),
		MetricsMiddleware(s.collector),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
	}

	// 同时配置时 JWT 优先，API Key 仅在未启用 JWT 时生效
	switch {
	case s.cfg.Server.JWT.Enabled():
		chain = append(chain, JWTAuth(s.cfg.Server.JWT, skipAuthPaths, s.logger))
	case len(s.cfg.Server.APIKeys) > 0:
		chain = append(chain, APIKeyAuth(s.cfg.Server.APIKeys, skipAuthPaths, s.cfg.Server.AllowQueryAPIKey, s.logger))
	default:
		s.logger.Warn("no authentication configured, API is open")
	}

	if s.cfg.Server.RateLimitRPS > 0 {
		chain = append(chain, RateLimiter(ctx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger))
	}

	return Chain(mux, chain...)
}

// MetricsHandler 暴露本服务私有 Registry 中的指标
func (s *Server) MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		Registry:          s.registry,
		EnableOpenMetrics: true,
	}))
	return mux
}

// =============================================================================
// 🚀 运行与关闭
// =============================================================================

// Run 启动 HTTP 与 Metrics 服务器并阻塞，直到 ctx 取消或任一服务器异常退出
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	httpManager := server.NewManager("http", s.Handler(gctx), server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	metricsManager := server.NewManager("metrics", s.MetricsHandler(), server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	g.Go(func() error { return httpManager.Run(gctx) })
	g.Go(func() error { return metricsManager.Run(gctx) })

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)

	err := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if terr := s.telemetry.Shutdown(shutdownCtx); terr != nil {
		s.logger.Error("telemetry shutdown error", zap.Error(terr))
	}

	s.logger.Info("Graceful shutdown completed")
	return err
}
