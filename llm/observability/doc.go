// 版权所有 2024 VoiceBridge Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 observability 提供语音调用的可观测性能力，涵盖指标采集、
分布式追踪与成本核算。

# 概述

本包基于 OpenTelemetry 标准，为 TTS 与声音管理请求提供统一的
观测手段。从请求发起到响应结束，记录延迟、字符数、音频字节数、
错误与单次请求成本。

典型使用场景：

  - 实时监控语音请求量、延迟分布与错误率。
  - 按 Provider、Model 维度统计字符消耗与成本。
  - 由音频大小估算播放时长并据此计费。

# 核心类型

  - Metrics：基于 OpenTelemetry Meter/Tracer 的指标收集器，提供
    speech.request.total、speech.request.duration、speech.characters、
    speech.cost.per_request、speech.error.total 等指标与 speech.* Span。
  - CostCalculator：成本计算器，内置 ElevenLabs 模型按秒价格，支持
    按字符计价与从配置批量更新。
  - CostTracker：进程级成本追踪器，汇总请求数、字符数、音频秒数与费用。

# 计费约定

音频时长按 128 kbps MP3 估算，即每秒 16 KiB（BytesPerAudioSecond）。
单次成本 = 时长 × CostPerSecond + 字符数 × CostPerCharacter。
*/
package observability
