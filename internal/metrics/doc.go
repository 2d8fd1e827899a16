// 版权所有 2024 VoiceBridge Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
HTTP 网关、文字转语音与声音管理三个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制（可指定 Registerer）。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram 等 Prometheus
    向量指标，实现 speech.Recorder 接口。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - TTS 指标：tts_requests_total、tts_request_duration_seconds、
    tts_characters_total、tts_audio_bytes_total、tts_cost_total，
    按 provider/model 分组。
  - 声音管理指标：voice_operations_total、voice_operation_duration_seconds，
    按 provider/operation 分组。
*/
package metrics
