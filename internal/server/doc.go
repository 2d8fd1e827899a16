// 版权所有 2024 VoiceBridge Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 server 提供 HTTP 服务器生命周期管理，支持非阻塞启动、
阻塞运行与优雅关闭。

# 概述

Manager 封装 net/http.Server，统一管理监听、服务、关闭与错误
传播。VoiceBridge 为网关端口与 Prometheus 指标端口各创建一个
Manager，由 cmd/voicebridge 通过 errgroup 并发运行。

# 核心类型

  - Manager：持有 http.Server、net.Listener 与异步错误通道，
    提供 Start/Run/Shutdown 生命周期方法。
  - Config：监听地址、读写超时、空闲超时、最大请求头大小与
    优雅关闭超时。

# 主要能力

  - 非阻塞启动：Start 在后台 goroutine 中运行服务。
  - 阻塞运行：Run 在 ctx 取消时优雅关闭，服务异常时返回错误。
  - 优雅关闭：Shutdown 在配置的超时内排空请求，可重复调用。
  - 状态查询：IsRunning、Addr、ListenAddr。
*/
package server
