package speech

import (
	"net/http"
	"time"

	"github.com/BaSui01/voicebridge/llm/observability"
)

// Recorder 接收每次调用的结果，通常由 Prometheus collector 实现.
type Recorder interface {
	RecordTTSRequest(provider, model, status string, duration time.Duration, characters, audioBytes int, cost float64)
	RecordVoiceOperation(provider, operation, status string, duration time.Duration)
}

// Option 配置 handler / voice manager 的可选协作者.
type Option func(*options)

type options struct {
	client   *http.Client
	cost     *observability.CostCalculator
	recorder Recorder
	metrics  *observability.Metrics
}

// WithHTTPClient 使用共享的 http.Client（连接复用在 Transport 层完成）。
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithCostCalculator 启用按音频时长计费。声音管理忽略该选项。
func WithCostCalculator(c *observability.CostCalculator) Option {
	return func(o *options) { o.cost = c }
}

// WithRecorder 上报调用结果。
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithMetrics 启用 OpenTelemetry span 与指标。
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.client == nil {
		// 超时由每次调用的 context 控制
		o.client = &http.Client{}
	}
	return o
}
