// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器，同时实现 speech.Recorder
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// TTS 指标
	ttsRequestsTotal   *prometheus.CounterVec
	ttsRequestDuration *prometheus.HistogramVec
	ttsCharacters      *prometheus.CounterVec
	ttsAudioBytes      *prometheus.CounterVec
	ttsCost            *prometheus.CounterVec

	// 声音管理指标
	voiceOperationsTotal   *prometheus.CounterVec
	voiceOperationDuration *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器并注册到默认 Registerer
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	return NewCollectorWithRegisterer(namespace, prometheus.DefaultRegisterer, logger)
}

// NewCollectorWithRegisterer 创建指标收集器并注册到指定 Registerer
func NewCollectorWithRegisterer(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// TTS 指标
	c.ttsRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_requests_total",
			Help:      "Total number of text-to-speech requests",
		},
		[]string{"provider", "model", "status"},
	)

	c.ttsRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tts_request_duration_seconds",
			Help:      "Text-to-speech request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	c.ttsCharacters = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_characters_total",
			Help:      "Total number of input characters synthesized",
		},
		[]string{"provider", "model"},
	)

	c.ttsAudioBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_audio_bytes_total",
			Help:      "Total audio bytes returned by providers",
		},
		[]string{"provider", "model"},
	)

	c.ttsCost = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_cost_total",
			Help:      "Total text-to-speech cost in USD",
		},
		[]string{"provider", "model"},
	)

	// 声音管理指标
	c.voiceOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_operations_total",
			Help:      "Total number of voice management operations",
		},
		[]string{"provider", "operation", "status"},
	)

	c.voiceOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "voice_operation_duration_seconds",
			Help:      "Voice management operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🔊 TTS 指标记录
// =============================================================================

// RecordTTSRequest 记录一次文字转语音请求
func (c *Collector) RecordTTSRequest(provider, model, status string, duration time.Duration, characters, audioBytes int, cost float64) {
	c.ttsRequestsTotal.WithLabelValues(provider, model, status).Inc()
	c.ttsRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if characters > 0 {
		c.ttsCharacters.WithLabelValues(provider, model).Add(float64(characters))
	}
	if audioBytes > 0 {
		c.ttsAudioBytes.WithLabelValues(provider, model).Add(float64(audioBytes))
	}
	if cost > 0 {
		c.ttsCost.WithLabelValues(provider, model).Add(cost)
	}
}

// =============================================================================
// 🎙️ 声音管理指标记录
// =============================================================================

// RecordVoiceOperation 记录声音管理操作
func (c *Collector) RecordVoiceOperation(provider, operation, status string, duration time.Duration) {
	c.voiceOperationsTotal.WithLabelValues(provider, operation, status).Inc()
	c.voiceOperationDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
