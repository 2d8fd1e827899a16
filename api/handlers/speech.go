package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BaSui01/voicebridge/api"
	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/llm/speech"
	"github.com/BaSui01/voicebridge/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🔊 语音合成 Handler
// =============================================================================

// Synthesizer 文字转语音执行器，由 speech.ElevenLabsTextToSpeech 实现
type Synthesizer interface {
	Convert(ctx context.Context, req *speech.SpeechRequest) (*speech.BinaryResponse, error)
}

// SpeechHandler 语音合成处理器
type SpeechHandler struct {
	tts     Synthesizer
	tracker *observability.CostTracker
	logger  *zap.Logger
}

// NewSpeechHandler 创建语音合成处理器，tracker 可为 nil
func NewSpeechHandler(tts Synthesizer, tracker *observability.CostTracker, logger *zap.Logger) *SpeechHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpeechHandler{
		tts:     tts,
		tracker: tracker,
		logger:  logger.With(zap.String("handler", "speech")),
	}
}

// HandleSpeech 处理语音合成请求
// @Summary 文字转语音
// @Description 将文本合成为音频，计费元数据通过响应头返回
// @Tags 语音
// @Accept json
// @Produce audio/mpeg
// @Param request body api.SpeechRequest true "合成请求"
// @Success 200 {file} binary "音频数据"
// @Failure 400 {object} Response "无效请求"
// @Failure 401 {object} Response "缺少凭据"
// @Failure 502 {object} Response "上游错误"
// @Security ApiKeyAuth
// @Router /v1/audio/speech [post]
func (h *SpeechHandler) HandleSpeech(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.SpeechRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	sreq, apiErr := toSpeechRequest(&req)
	if apiErr != nil {
		WriteError(w, apiErr, h.logger)
		return
	}

	resp, err := h.tts.Convert(r.Context(), sreq)
	if err != nil {
		WriteUpstreamError(w, err, h.logger)
		return
	}

	if h.tracker != nil {
		h.tracker.Track(observability.SpeechCost{
			AudioDurationSeconds: resp.Hidden.AudioDurationSeconds,
			CostPerSecond:        resp.Hidden.CostPerSecond,
			ResponseCost:         resp.Hidden.ResponseCost,
		}, resp.Hidden.PromptCharacters)
	}

	header := w.Header()
	header.Set("Content-Type", resp.ContentType())
	header.Set("Content-Length", strconv.Itoa(len(resp.Content)))
	header.Set(api.HeaderModel, resp.Hidden.Model)
	header.Set(api.HeaderPromptCharacters, strconv.Itoa(resp.Hidden.PromptCharacters))
	header.Set(api.HeaderAudioDurationSeconds, strconv.FormatFloat(resp.Hidden.AudioDurationSeconds, 'f', -1, 64))
	header.Set(api.HeaderResponseCost, strconv.FormatFloat(resp.Hidden.ResponseCost, 'f', -1, 64))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(resp.Content); err != nil {
		h.logger.Debug("client went away while writing audio", zap.Error(err))
	}
}

// toSpeechRequest 校验并转换为 speech.SpeechRequest
func toSpeechRequest(req *api.SpeechRequest) (*speech.SpeechRequest, *types.Error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "input is required").
			WithHTTPStatus(http.StatusBadRequest)
	}

	out := &speech.SpeechRequest{
		Model:          req.Model,
		Input:          req.Input,
		Voice:          strings.TrimSpace(req.Voice),
		OptionalParams: make(map[string]any, len(req.Extra)+2),
	}
	// 未建模的参数原样透传，不支持的在 provider 映射阶段丢弃
	for k, v := range req.Extra {
		out.OptionalParams[k] = v
	}

	if req.Speed != nil {
		if *req.Speed <= 0 {
			return nil, types.NewError(types.ErrInvalidRequest, "speed must be positive").
				WithHTTPStatus(http.StatusBadRequest)
		}
		out.OptionalParams["speed"] = *req.Speed
	}
	if req.ResponseFormat != "" {
		out.OptionalParams["response_format"] = req.ResponseFormat
	}

	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil || d <= 0 {
			return nil, types.NewError(types.ErrInvalidRequest, "timeout must be a positive duration").
				WithHTTPStatus(http.StatusBadRequest)
		}
		out.Timeout = d
	}

	return out, nil
}
