// Copyright (c) VoiceBridge Authors.
// Licensed under the MIT License.

/*
Package main 提供 VoiceBridge 服务端程序与命令行入口。

# 概述

cmd/voicebridge 是语音网关的可执行入口，对外暴露 OpenAI 风格的
/v1/audio/speech 与 ElevenLabs 声音管理 API，并提供本地合成、
声音管理、健康检查和版本查询等子命令。程序支持 YAML 配置与环境变量
覆盖、结构化日志（zap）、Prometheus 指标以及 OpenTelemetry 追踪。

# 核心类型

  - Server：主服务器，管理 API、Metrics 双端口及优雅关闭
  - Middleware：HTTP 中间件函数签名 func(http.Handler) http.Handler

# 主要能力

  - 子命令：serve、speak、voices（list/get/delete/create）、version、health
  - 中间件链：Recovery、RequestID、SecurityHeaders、OTelTracing、
    MetricsMiddleware、RequestLogger、CORS、JWTAuth 或 APIKeyAuth、
    RateLimiter（按 JWT subject 或客户端 IP）
  - Metrics 服务器：独立端口暴露 /metrics，使用私有 Registry
  - 优雅关闭：信号取消 context，两个服务器并行关闭后刷新遥测数据
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
