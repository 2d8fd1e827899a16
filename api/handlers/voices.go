package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/BaSui01/voicebridge/api"
	"github.com/BaSui01/voicebridge/llm/speech"
	"github.com/BaSui01/voicebridge/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🎙️ 声音管理 Handler
// =============================================================================

// VoiceService 声音管理操作，由 speech.VoiceManager 实现
type VoiceService interface {
	Create(ctx context.Context, req speech.CreateVoiceRequest) (*speech.Voice, error)
	Delete(ctx context.Context, voiceID string, opts speech.CallOptions) (*speech.DeleteVoiceResponse, error)
	Get(ctx context.Context, voiceID string, opts speech.CallOptions) (*speech.Voice, error)
	List(ctx context.Context, opts speech.CallOptions) (*speech.VoiceList, error)
}

// VoiceHandler 声音管理处理器
type VoiceHandler struct {
	voices VoiceService
	logger *zap.Logger
}

// NewVoiceHandler 创建声音管理处理器
func NewVoiceHandler(voices VoiceService, logger *zap.Logger) *VoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoiceHandler{
		voices: voices,
		logger: logger.With(zap.String("handler", "voices")),
	}
}

// HandleList 列出声音
// @Summary 列出声音
// @Tags 声音
// @Produce json
// @Success 200 {object} Response "声音列表"
// @Failure 502 {object} Response "上游错误"
// @Security ApiKeyAuth
// @Router /v1/voices [get]
func (h *VoiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.voices.List(r.Context(), speech.CallOptions{})
	if err != nil {
		WriteUpstreamError(w, err, h.logger)
		return
	}
	WriteSuccess(w, list)
}

// HandleCreate 克隆新声音
// @Summary 创建声音
// @Tags 声音
// @Accept json
// @Produce json
// @Param request body api.CreateVoiceRequest true "创建请求"
// @Success 201 {object} Response "新声音"
// @Failure 400 {object} Response "无效请求"
// @Security ApiKeyAuth
// @Router /v1/voices [post]
func (h *VoiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.CreateVoiceRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	sreq, apiErr := toCreateVoiceRequest(&req)
	if apiErr != nil {
		WriteError(w, apiErr, h.logger)
		return
	}

	voice, err := h.voices.Create(r.Context(), sreq)
	if err != nil {
		WriteUpstreamError(w, err, h.logger)
		return
	}

	h.logger.Info("voice created", zap.String("voice_id", voice.VoiceID))
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: voice, Timestamp: nowUTC()})
}

// HandleGet 查询声音详情
// @Summary 查询声音
// @Tags 声音
// @Produce json
// @Param voice_id path string true "声音 ID"
// @Success 200 {object} Response "声音详情"
// @Failure 404 {object} Response "声音不存在"
// @Security ApiKeyAuth
// @Router /v1/voices/{voice_id} [get]
func (h *VoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	voice, err := h.voices.Get(r.Context(), r.PathValue("voice_id"), speech.CallOptions{})
	if err != nil {
		WriteUpstreamError(w, err, h.logger)
		return
	}
	WriteSuccess(w, voice)
}

// HandleDelete 删除声音
// @Summary 删除声音
// @Tags 声音
// @Produce json
// @Param voice_id path string true "声音 ID"
// @Success 200 {object} Response "删除结果"
// @Security ApiKeyAuth
// @Router /v1/voices/{voice_id} [delete]
func (h *VoiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	voiceID := r.PathValue("voice_id")
	out, err := h.voices.Delete(r.Context(), voiceID, speech.CallOptions{})
	if err != nil {
		WriteUpstreamError(w, err, h.logger)
		return
	}

	h.logger.Info("voice deleted", zap.String("voice_id", voiceID))
	WriteSuccess(w, api.DeleteVoiceResponse{VoiceID: voiceID, Status: out.Status})
}

// toCreateVoiceRequest 校验名称并解码 base64 样本
func toCreateVoiceRequest(req *api.CreateVoiceRequest) (speech.CreateVoiceRequest, *types.Error) {
	if strings.TrimSpace(req.Name) == "" {
		return speech.CreateVoiceRequest{}, types.NewError(types.ErrInvalidRequest, "name is required").
			WithHTTPStatus(http.StatusBadRequest)
	}
	if len(req.Files) == 0 {
		return speech.CreateVoiceRequest{}, types.NewError(types.ErrInvalidRequest, "at least one audio file is required").
			WithHTTPStatus(http.StatusBadRequest)
	}

	files := make([][]byte, 0, len(req.Files))
	for i, f := range req.Files {
		data, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			return speech.CreateVoiceRequest{}, types.NewError(types.ErrInvalidRequest,
				fmt.Sprintf("files[%d] is not valid base64", i)).
				WithCause(err).
				WithHTTPStatus(http.StatusBadRequest)
		}
		files = append(files, data)
	}

	return speech.CreateVoiceRequest{
		Name:        req.Name,
		Description: req.Description,
		Files:       files,
	}, nil
}
