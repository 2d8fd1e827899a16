package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BaSui01/voicebridge/llm/speech"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

// Collector 必须满足 speech.Recorder
var _ speech.Recorder = (*Collector)(nil)

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	logger := zap.NewNop()
	collector := NewCollector(nextTestNamespace(), logger)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.httpRequestDuration)
	assert.NotNil(t, collector.ttsRequestsTotal)
	assert.NotNil(t, collector.ttsRequestDuration)
	assert.NotNil(t, collector.ttsCharacters)
	assert.NotNil(t, collector.ttsCost)
	assert.NotNil(t, collector.voiceOperationsTotal)
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollectorWithRegisterer(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())

	// 记录请求
	collector.RecordHTTPRequest("GET", "/v1/voices", 200, 100*time.Millisecond, 1024, 2048)
	collector.RecordHTTPRequest("GET", "/v1/voices", 204, 50*time.Millisecond, 512, 1024)
	collector.RecordHTTPRequest("POST", "/v1/audio/speech", 502, 50*time.Millisecond, 512, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/v1/voices", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("POST", "/v1/audio/speech", "5xx")))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.httpRequestsTotal))
}

func TestCollector_RecordTTSRequest(t *testing.T) {
	collector := NewCollectorWithRegisterer(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())

	collector.RecordTTSRequest("elevenlabs", "eleven_multilingual_v2", "success",
		500*time.Millisecond,
		51,       // characters
		160*1024, // audio bytes
		0.0045,   // cost
	)
	collector.RecordTTSRequest("elevenlabs", "eleven_multilingual_v2", "upstream_error",
		100*time.Millisecond, 0, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ttsRequestsTotal.WithLabelValues("elevenlabs", "eleven_multilingual_v2", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ttsRequestsTotal.WithLabelValues("elevenlabs", "eleven_multilingual_v2", "upstream_error")))
	assert.Equal(t, 51.0, testutil.ToFloat64(collector.ttsCharacters.WithLabelValues("elevenlabs", "eleven_multilingual_v2")))
	assert.Equal(t, float64(160*1024), testutil.ToFloat64(collector.ttsAudioBytes.WithLabelValues("elevenlabs", "eleven_multilingual_v2")))
	assert.InDelta(t, 0.0045, testutil.ToFloat64(collector.ttsCost.WithLabelValues("elevenlabs", "eleven_multilingual_v2")), 1e-12)
}

func TestCollector_RecordVoiceOperation(t *testing.T) {
	collector := NewCollectorWithRegisterer(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())

	collector.RecordVoiceOperation("elevenlabs", "create", "success", 300*time.Millisecond)
	collector.RecordVoiceOperation("elevenlabs", "list", "auth_error", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.voiceOperationsTotal.WithLabelValues("elevenlabs", "create", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.voiceOperationsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.voiceOperationDuration))
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollectorWithRegisterer(nextTestNamespace(), prometheus.NewRegistry(), zap.NewNop())

	// 并发记录多个指标
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.RecordHTTPRequest("GET", "/test", 200, 100*time.Millisecond, 1024, 2048)
			collector.RecordTTSRequest("elevenlabs", "eleven_multilingual_v2", "success", 500*time.Millisecond, 10, 100, 0.01)
			collector.RecordVoiceOperation("elevenlabs", "get", "success", time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10.0, testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/test", "2xx")))
	assert.Equal(t, 100.0, testutil.ToFloat64(collector.ttsCharacters.WithLabelValues("elevenlabs", "eleven_multilingual_v2")))
	assert.Equal(t, 10.0, testutil.ToFloat64(collector.voiceOperationsTotal.WithLabelValues("elevenlabs", "get", "success")))
}

func TestCollector_MetricsRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	ns := nextTestNamespace()
	collector := NewCollectorWithRegisterer(ns, registry, zap.NewNop())

	collector.RecordTTSRequest("elevenlabs", "m", "success", time.Millisecond, 1, 1, 0.1)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names[ns+"_tts_requests_total"])
	assert.True(t, names[ns+"_tts_cost_total"])

	// 同一 registry 重复注册同名指标会 panic
	assert.Panics(t, func() { NewCollectorWithRegisterer(ns, registry, zap.NewNop()) })
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(201))
	assert.Equal(t, "3xx", statusCode(304))
	assert.Equal(t, "4xx", statusCode(401))
	assert.Equal(t, "5xx", statusCode(503))
	assert.Equal(t, "unknown", statusCode(0))
}
