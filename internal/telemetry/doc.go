// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑，
// 为 VoiceBridge 提供 TracerProvider 和 MeterProvider，
// 供 llm/observability 的语音指标与 HTTP 追踪中间件使用。
// 当遥测功能禁用时返回 noop 实现，不连接任何外部服务。
package telemetry
