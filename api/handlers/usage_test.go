package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BaSui01/voicebridge/api"
	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageHandler(t *testing.T) {
	tracker := observability.NewCostTracker()
	tracker.Track(observability.SpeechCost{AudioDurationSeconds: 10, ResponseCost: 0.0045}, 51)
	tracker.Track(observability.SpeechCost{AudioDurationSeconds: 2, ResponseCost: 0.0009}, 5)

	h := NewUsageHandler(tracker)

	w := httptest.NewRecorder()
	h.HandleUsage(w, httptest.NewRequest(http.MethodGet, "/v1/usage", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var usage api.UsageResponse
	decodeResponse(t, w, &usage)
	assert.Equal(t, 2, usage.Requests)
	assert.Equal(t, 56, usage.Characters)
	assert.InDelta(t, 12.0, usage.AudioSeconds, 1e-9)
	assert.InDelta(t, 0.0054, usage.TotalCost, 1e-12)
	assert.InDelta(t, 0.0027, usage.AvgCostPerRequest, 1e-12)
	assert.False(t, usage.Since.IsZero())

	// reset 返回重置前的用量
	w = httptest.NewRecorder()
	h.HandleReset(w, httptest.NewRequest(http.MethodDelete, "/v1/usage", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var before api.UsageResponse
	decodeResponse(t, w, &before)
	assert.Equal(t, 2, before.Requests)

	assert.Zero(t, tracker.Summary().RequestCount)
	assert.False(t, h.since.Before(usage.Since))
}
