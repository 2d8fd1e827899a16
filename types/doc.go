// Copyright (c) VoiceBridge Authors.
// Licensed under the MIT License.

/*
Package types 提供 voicebridge 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 llm/speech、api、cmd 等
上层模块提供统一的错误契约与请求上下文键，以避免循环依赖。

# 核心类型

  - Error / ErrorCode：结构化错误体系，含 HTTP 状态码、Retryable、Provider
    标记与远端响应头
  - 请求上下文：WithRequestID / RequestID、WithSubject / Subject，
    由 HTTP 中间件写入，供 llm/speech 日志读取

# 主要能力

  - 错误构造：NewError + WithCause / WithHTTPStatus / WithHeaders 链式构建
  - 错误工具链：AsError / IsErrorCode / IsAuthentication / StatusCode，
    均沿 errors.As 包装链查找
*/
package types
