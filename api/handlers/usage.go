package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/BaSui01/voicebridge/api"
	"github.com/BaSui01/voicebridge/llm/observability"
)

// UsageHandler 用量查询处理器
type UsageHandler struct {
	tracker *observability.CostTracker
	mu      sync.Mutex
	since   time.Time
}

// NewUsageHandler 创建用量查询处理器，统计从创建时刻开始
func NewUsageHandler(tracker *observability.CostTracker) *UsageHandler {
	return &UsageHandler{tracker: tracker, since: nowUTC()}
}

// HandleUsage 返回累计合成用量
// @Summary 用量汇总
// @Tags 语音
// @Produce json
// @Success 200 {object} api.UsageResponse "用量"
// @Security ApiKeyAuth
// @Router /v1/usage [get]
func (h *UsageHandler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	usage := h.snapshot()
	h.mu.Unlock()
	WriteSuccess(w, usage)
}

// HandleReset 清零用量统计
// @Summary 重置用量
// @Tags 语音
// @Produce json
// @Success 200 {object} api.UsageResponse "重置前的用量"
// @Security ApiKeyAuth
// @Router /v1/usage [delete]
func (h *UsageHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	usage := h.snapshot()
	h.tracker.Reset()
	h.since = nowUTC()
	h.mu.Unlock()
	WriteSuccess(w, usage)
}

// snapshot 调用方持有 h.mu
func (h *UsageHandler) snapshot() api.UsageResponse {
	s := h.tracker.Summary()
	return api.UsageResponse{
		Requests:          s.RequestCount,
		Characters:        s.TotalCharacters,
		AudioSeconds:      s.TotalAudioSeconds,
		TotalCost:         s.TotalCost,
		AvgCostPerRequest: s.AvgCostPerReq,
		Since:             h.since,
	}
}

func nowUTC() time.Time { return time.Now().UTC() }
