package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/BaSui01/voicebridge/llm/speech"

// Metrics 语音指标收集器
type Metrics struct {
	tracer trace.Tracer
	meter  metric.Meter
	// 计数器
	requestTotal   metric.Int64Counter
	characterTotal metric.Int64Counter
	audioByteTotal metric.Int64Counter
	errorTotal     metric.Int64Counter
	// 直方图
	requestDuration metric.Float64Histogram
	costPerRequest  metric.Float64Histogram
	// 活跃请求
	activeRequests metric.Int64UpDownCounter
}

// NewMetrics 使用全局 TracerProvider / MeterProvider 创建指标收集器
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithProviders(otel.GetTracerProvider(), otel.GetMeterProvider())
}

// NewMetricsWithProviders 使用指定的 Provider 创建指标收集器
func NewMetricsWithProviders(tp trace.TracerProvider, mp metric.MeterProvider) (*Metrics, error) {
	tracer := tp.Tracer(instrumentationName)
	meter := mp.Meter(instrumentationName)

	m := &Metrics{
		tracer: tracer,
		meter:  meter,
	}

	var err error

	// 请求计数
	m.requestTotal, err = meter.Int64Counter("speech.request.total",
		metric.WithDescription("Total number of speech requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	// 字符计数
	m.characterTotal, err = meter.Int64Counter("speech.characters",
		metric.WithDescription("Total input characters synthesized"),
		metric.WithUnit("{character}"))
	if err != nil {
		return nil, err
	}

	// 音频字节
	m.audioByteTotal, err = meter.Int64Counter("speech.audio.bytes",
		metric.WithDescription("Total audio bytes returned by providers"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	// 错误计数
	m.errorTotal, err = meter.Int64Counter("speech.error.total",
		metric.WithDescription("Total number of speech errors"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}

	// 请求延迟
	m.requestDuration, err = meter.Float64Histogram("speech.request.duration",
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30))
	if err != nil {
		return nil, err
	}

	// 成本分布
	m.costPerRequest, err = meter.Float64Histogram("speech.cost.per_request",
		metric.WithDescription("Cost per request in USD"),
		metric.WithUnit("USD"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5))
	if err != nil {
		return nil, err
	}

	m.activeRequests, err = meter.Int64UpDownCounter("speech.request.active",
		metric.WithDescription("Number of active speech requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RequestAttrs 请求属性
type RequestAttrs struct {
	Provider  string
	Model     string
	Voice     string
	Operation string // synthesize, voice.create, voice.get ...
}

// ResponseAttrs 响应属性
type ResponseAttrs struct {
	Status     string
	ErrorCode  string
	HTTPStatus int
	Characters int
	AudioBytes int
	Cost       float64
	Duration   time.Duration
}

func (a RequestAttrs) spanName() string {
	if a.Operation == "" {
		return "speech.synthesize"
	}
	return "speech." + a.Operation
}

// StartRequest 开始请求追踪
func (m *Metrics) StartRequest(ctx context.Context, attrs RequestAttrs) (context.Context, trace.Span) {
	ctx, span := m.tracer.Start(ctx, attrs.spanName(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("speech.provider", attrs.Provider),
			attribute.String("speech.model", attrs.Model),
			attribute.String("speech.voice", attrs.Voice),
		))

	m.activeRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", attrs.Provider),
			attribute.String("model", attrs.Model)))

	return ctx, span
}

// EndRequest 结束请求追踪
func (m *Metrics) EndRequest(ctx context.Context, span trace.Span, req RequestAttrs, resp ResponseAttrs) {
	defer span.End()

	commonAttrs := []attribute.KeyValue{
		attribute.String("provider", req.Provider),
		attribute.String("model", req.Model),
		attribute.String("status", resp.Status),
	}

	m.activeRequests.Add(ctx, -1,
		metric.WithAttributes(
			attribute.String("provider", req.Provider),
			attribute.String("model", req.Model)))

	m.requestTotal.Add(ctx, 1, metric.WithAttributes(commonAttrs...))
	m.requestDuration.Record(ctx, resp.Duration.Seconds(), metric.WithAttributes(commonAttrs...))

	if resp.Characters > 0 {
		m.characterTotal.Add(ctx, int64(resp.Characters), metric.WithAttributes(
			attribute.String("provider", req.Provider),
			attribute.String("model", req.Model)))
	}
	if resp.AudioBytes > 0 {
		m.audioByteTotal.Add(ctx, int64(resp.AudioBytes), metric.WithAttributes(
			attribute.String("provider", req.Provider),
			attribute.String("model", req.Model)))
	}

	// 记录成本
	if resp.Cost > 0 {
		m.costPerRequest.Record(ctx, resp.Cost, metric.WithAttributes(commonAttrs...))
	}

	// 记录错误
	if resp.ErrorCode != "" {
		m.errorTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", req.Provider),
			attribute.String("model", req.Model),
			attribute.String("error_code", resp.ErrorCode)))

		span.SetAttributes(attribute.String("error.code", resp.ErrorCode))
		span.SetStatus(codes.Error, resp.ErrorCode)
	}

	// Span 属性
	span.SetAttributes(
		attribute.String("speech.status", resp.Status),
		attribute.Int("speech.characters", resp.Characters),
		attribute.Int("speech.audio_bytes", resp.AudioBytes),
		attribute.Int("http.response.status_code", resp.HTTPStatus),
		attribute.Float64("speech.cost", resp.Cost),
		attribute.Float64("speech.duration_ms", float64(resp.Duration.Milliseconds())))
}

// Tracer 获取 Tracer
func (m *Metrics) Tracer() trace.Tracer {
	return m.tracer
}
