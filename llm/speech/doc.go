// 版权所有 2024 VoiceBridge Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 speech 提供 ElevenLabs 文字转语音 (TTS) 与声音管理的接入层，
将统一的 OpenAI 风格请求转换为 ElevenLabs 原生请求，并把音频响应
规范化为带计费元数据的内存响应。

# 概述

本包将供应商适配拆为两层：

  - 转换层（TextToSpeechConfig）：参数映射、凭据校验、请求体构造、
    地址计算与响应元数据填充，全部为纯函数，不发起网络调用。
  - 执行层（ElevenLabsTextToSpeech / VoiceManager）：每次调用恰好一次
    出站 HTTP 请求，无重试、无缓存、无本地状态。

# 核心接口与类型

  - TextToSpeechConfig：供应商转换契约。
  - ElevenLabsTTSConfig：ElevenLabs 实现，支持 voice、speed、response_format
    三个参数；response_format 一律映射为 mp3。
  - ElevenLabsTextToSpeech：TTS handler，Convert 返回 BinaryResponse。
  - VoiceManager：Create / Delete / Get / List 四个声音管理操作。
  - BinaryResponse / HiddenParams：音频字节与计费元数据（模型、字符数、
    音频时长、成本），api_key 在 String 与 JSON 中被遮蔽。
  - SecretResolver：EnvSecrets、StaticSecrets、ChainSecrets 三种实现，
    构造时注入，组件内部不直接读取环境变量。
  - Recorder：调用结果上报接口，由 internal/metrics 的 Prometheus
    collector 实现。

# 错误模型

  - 缺少凭据：types.ErrAuthentication，HTTP 401，在任何网络调用之前返回。
  - 远端失败：types.ErrUpstreamError，保留远端状态码、响应体与响应头，
    消息格式为 "<前缀>: <状态码> - <响应体>"。
  - 传输失败（拨号、超时、取消）：以 %w 包装后原样返回，可用
    errors.Is(err, context.DeadlineExceeded) 判断。

# 使用示例

	tts := speech.NewElevenLabsTextToSpeech(speech.DefaultElevenLabsConfig(),
		speech.EnvSecrets{}, logger,
		speech.WithCostCalculator(observability.NewCostCalculator()))

	resp, err := tts.Convert(ctx, &speech.SpeechRequest{
		Model: "eleven_multilingual_v2",
		Input: "Hello",
		Voice: "21m00Tcm4TlvDq8ikWAM",
	})
*/
package speech
