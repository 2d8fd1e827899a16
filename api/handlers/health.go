package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/BaSui01/voicebridge/llm/speech"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// 🏥 健康检查 Handler
// =============================================================================

const readinessTimeout = 5 * time.Second

// HealthHandler 存活与就绪检查
type HealthHandler struct {
	logger  *zap.Logger
	started time.Time

	mu     sync.RWMutex
	checks []HealthCheck
}

// HealthCheck 就绪检查项。details 会原样出现在 /ready 响应中，不得包含密钥。
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) (details map[string]string, err error)
}

// HealthStatus 健康状态响应
type HealthStatus struct {
	Status    string                 `json:"status"` // "healthy", "unhealthy"
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult 单个检查结果
type CheckResult struct {
	Status  string            `json:"status"` // "pass", "fail"
	Message string            `json:"message,omitempty"`
	Latency string            `json:"latency,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{logger: logger, started: time.Now()}
}

// RegisterCheck 注册就绪检查
func (h *HealthHandler) RegisterCheck(check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check)
}

// =============================================================================
// 🎯 HTTP 处理程序
// =============================================================================

// HandleLive 处理 /health 与 /healthz：进程存活即返回 200，不访问上游
// @Summary 存活检查
// @Tags 健康
// @Produce json
// @Success 200 {object} HealthStatus "服务处于活动状态"
// @Router /health [get]
func (h *HealthHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(h.started).Truncate(time.Second).String(),
	})
}

// HandleReady 处理 /ready 与 /readyz：并发执行全部检查，任一失败返回 503
// @Summary 就绪检查
// @Description 报告 ElevenLabs 上游地址与凭据来源
// @Tags 健康
// @Produce json
// @Success 200 {object} HealthStatus "服务已准备就绪"
// @Failure 503 {object} HealthStatus "服务尚未准备好"
// @Router /ready [get]
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	h.mu.RLock()
	checks := append([]HealthCheck(nil), h.checks...)
	h.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			results[i] = h.run(ctx, check)
			return nil
		})
	}
	_ = g.Wait()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckResult, len(checks)),
	}
	code := http.StatusOK
	for i, check := range checks {
		status.Checks[check.Name()] = results[i]
		if results[i].Status != "pass" {
			status.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	WriteJSON(w, code, status)
}

func (h *HealthHandler) run(ctx context.Context, check HealthCheck) CheckResult {
	start := time.Now()
	details, err := check.Check(ctx)
	latency := time.Since(start)

	result := CheckResult{Status: "pass", Latency: latency.String(), Details: details}
	if err != nil {
		result.Status = "fail"
		result.Message = err.Error()
		h.logger.Warn("readiness check failed",
			zap.String("check", check.Name()),
			zap.Error(err),
			zap.Duration("latency", latency))
	}
	return result
}

// HandleVersion 处理 /version 请求
// @Summary 版本信息
// @Tags 健康
// @Produce json
// @Success 200 {object} map[string]string "版本信息"
// @Router /version [get]
func (h *HealthHandler) HandleVersion(version, buildTime, gitCommit string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteSuccess(w, map[string]string{
			"version":    version,
			"build_time": buildTime,
			"git_commit": gitCommit,
		})
	}
}

// =============================================================================
// 🔊 ElevenLabs 就绪检查
// =============================================================================

// ErrNoCredentials 没有任何来源提供 ElevenLabs API Key
var ErrNoCredentials = errors.New("no ElevenLabs API key configured")

// ElevenLabsCheck 报告解析后的上游地址、默认模型/声音与凭据来源。
// 不发起网络请求：上游可用性由每次调用的错误体现。
type ElevenLabsCheck struct {
	cfg     speech.ElevenLabsConfig
	secrets speech.SecretResolver
}

// NewElevenLabsCheck 创建 ElevenLabs 就绪检查
func NewElevenLabsCheck(cfg speech.ElevenLabsConfig, secrets speech.SecretResolver) *ElevenLabsCheck {
	return &ElevenLabsCheck{cfg: cfg, secrets: secrets}
}

func (c *ElevenLabsCheck) Name() string { return speech.ProviderName }

func (c *ElevenLabsCheck) Check(context.Context) (map[string]string, error) {
	details := map[string]string{
		"base_url":          speech.ResolveBaseURL(c.cfg.BaseURL, c.secrets),
		"default_model":     speech.NormalizeModel(c.cfg.Model, speech.DefaultModel),
		"default_voice_id":  c.cfg.VoiceID,
		"credential_source": "none",
	}
	if details["default_voice_id"] == "" {
		details["default_voice_id"] = speech.DefaultVoiceID
	}

	source, ok := speech.CredentialSource(c.secrets)
	if !ok {
		return details, ErrNoCredentials
	}
	details["credential_source"] = source
	return details, nil
}
