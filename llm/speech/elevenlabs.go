package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/types"
	"go.uber.org/zap"
)

// ElevenLabsTextToSpeech 使用 ElevenLabs API 执行 TTS，每次调用恰好一次出站请求.
type ElevenLabsTextToSpeech struct {
	cfg         ElevenLabsConfig
	transformer TextToSpeechConfig
	opts        options
	logger      *zap.Logger
}

// NewElevenLabsTextToSpeech 创建 ElevenLabs TTS handler.
func NewElevenLabsTextToSpeech(cfg ElevenLabsConfig, secrets SecretResolver, logger *zap.Logger, opts ...Option) *ElevenLabsTextToSpeech {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &ElevenLabsTextToSpeech{
		cfg:         cfg,
		transformer: NewElevenLabsTTSConfig(cfg, secrets),
		opts:        buildOptions(opts),
		logger:      logger.With(zap.String("component", "elevenlabs_tts")),
	}
}

func (h *ElevenLabsTextToSpeech) Name() string { return ProviderName }

// Transformer 返回请求/响应转换器。
func (h *ElevenLabsTextToSpeech) Transformer() TextToSpeechConfig { return h.transformer }

// Convert 将文本转换为语音并返回内存中的音频.
func (h *ElevenLabsTextToSpeech) Convert(ctx context.Context, req *SpeechRequest) (*BinaryResponse, error) {
	if req == nil {
		return nil, newInvalidRequestError("speech request is nil")
	}
	model := NormalizeModel(req.Model, h.cfg.Model)
	attrs := observability.RequestAttrs{Provider: ProviderName, Model: model, Voice: req.Voice}

	start := time.Now()
	var finish func(*BinaryResponse, error)
	ctx, finish = h.observe(ctx, attrs, start)

	resp, err := h.convert(ctx, model, req)
	finish(resp, err)
	return resp, err
}

func (h *ElevenLabsTextToSpeech) convert(ctx context.Context, model string, req *SpeechRequest) (*BinaryResponse, error) {
	t := h.transformer

	headers, err := t.ValidateEnvironment(req.APIKey)
	if err != nil {
		return nil, err
	}

	optional := t.MapParams(req.OptionalParams, nil, model, false)
	body := t.TransformRequest(model, req.Input, req.Voice, optional, req.Params)
	// 请求体中的 voice_id 决定路径
	endpoint := t.CompleteURL(req.APIBase, model, body, req.Params)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode elevenlabs request: %w", err)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = h.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	h.logger.Debug("elevenlabs speech request",
		zap.String("model", model),
		zap.String("voice", req.Voice),
		zap.Int("input_chars", utf8.RuneCountInString(req.Input)))

	resp, err := h.opts.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		h.logger.Warn("elevenlabs speech request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("model", model))
		return nil, t.ErrorClass(remoteMessage(errPrefixSpeech, resp.StatusCode, errBody), resp.StatusCode, resp.Header)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read elevenlabs audio: %w", err)
	}

	out := &BinaryResponse{
		Content:    content,
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{audioMPEG}},
	}
	requestData := map[string]any{"input": req.Input, "voice": req.Voice}
	out = t.TransformResponse(model, resp, out, requestData, headers["xi-api-key"])

	if h.opts.cost != nil {
		c := h.opts.cost.Calculate(ProviderName, model, len(out.Content), out.Hidden.PromptCharacters)
		out.Hidden.AudioDurationSeconds = c.AudioDurationSeconds
		out.Hidden.CostPerSecond = c.CostPerSecond
		out.Hidden.ResponseCost = c.ResponseCost
	}

	return out, nil
}

// observe 开启 span，返回的 finish 负责上报指标与日志
func (h *ElevenLabsTextToSpeech) observe(ctx context.Context, attrs observability.RequestAttrs, start time.Time) (context.Context, func(*BinaryResponse, error)) {
	m := h.opts.metrics
	var finishSpan func(observability.ResponseAttrs)
	if m != nil {
		spanCtx, span := m.StartRequest(ctx, attrs)
		ctx = spanCtx
		finishSpan = func(ra observability.ResponseAttrs) { m.EndRequest(spanCtx, span, attrs, ra) }
	}

	requestID, _ := types.RequestID(ctx)

	return ctx, func(resp *BinaryResponse, err error) {
		duration := time.Since(start)
		status, code := outcome(err)

		ra := observability.ResponseAttrs{
			Status:    status,
			ErrorCode: code,
			Duration:  duration,
		}
		if resp != nil {
			ra.HTTPStatus = resp.StatusCode
			ra.Characters = resp.Hidden.PromptCharacters
			ra.AudioBytes = len(resp.Content)
			ra.Cost = resp.Hidden.ResponseCost
		} else if err != nil {
			ra.HTTPStatus = types.StatusCode(err)
		}

		if finishSpan != nil {
			finishSpan(ra)
		}
		if h.opts.recorder != nil {
			h.opts.recorder.RecordTTSRequest(ProviderName, attrs.Model, status, duration, ra.Characters, ra.AudioBytes, ra.Cost)
		}

		if err != nil {
			h.logger.Warn("speech synthesis failed",
				zap.String("request_id", requestID),
				zap.String("model", attrs.Model),
				zap.String("status", status),
				zap.Duration("duration", duration),
				zap.Error(err))
			return
		}
		h.logger.Info("speech synthesized",
			zap.String("request_id", requestID),
			zap.String("model", attrs.Model),
			zap.Int("characters", ra.Characters),
			zap.Int("audio_bytes", ra.AudioBytes),
			zap.Float64("cost", ra.Cost),
			zap.Duration("duration", duration))
	}
}
