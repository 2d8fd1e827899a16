// Copyright (c) VoiceBridge Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 VoiceBridge HTTP 网关的请求处理器实现。

# 概述

handlers 包实现语音合成、声音管理、用量查询与健康检查端点，
所有 Handler 均遵循标准 net/http 接口，依赖 Synthesizer 与
VoiceService 接口而非具体的 ElevenLabs 实现。

# 核心类型

  - SpeechHandler：POST /v1/audio/speech，返回音频字节与计费响应头
  - VoiceHandler：/v1/voices 列表、创建、查询、删除
  - UsageHandler：/v1/usage 累计用量查询与重置
  - HealthHandler：服务健康检查（/health, /healthz, /ready, /version）
  - Response：统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo：结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter：包装 http.ResponseWriter 以捕获状态码与字节数

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 上游错误转换：ToAPIError 保留远端状态码，传输失败映射为 502/504
  - 请求验证：DecodeJSONBody（32 MB 限制 + 严格模式）、ValidateContentType
  - 语音请求宽松解码：未建模字段进入 OptionalParams，由 provider 映射阶段丢弃
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx）
  - 可扩展健康检查：RegisterCheck 注册 HealthCheck 实现
*/
package handlers
