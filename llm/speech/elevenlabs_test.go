package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/testutil"
	"github.com/BaSui01/voicebridge/testutil/mocks"
	"github.com/BaSui01/voicebridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeRecorder 记录 Recorder 调用
type fakeRecorder struct {
	mu    sync.Mutex
	tts   []recordedTTS
	voice []recordedVoiceOp
}

type recordedTTS struct {
	model, status     string
	chars, audioBytes int
	cost              float64
}

type recordedVoiceOp struct {
	operation, status string
}

func (r *fakeRecorder) RecordTTSRequest(provider, model, status string, _ time.Duration, characters, audioBytes int, cost float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts = append(r.tts, recordedTTS{model: model, status: status, chars: characters, audioBytes: audioBytes, cost: cost})
}

func (r *fakeRecorder) RecordVoiceOperation(provider, operation, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voice = append(r.voice, recordedVoiceOp{operation: operation, status: status})
}

func newMockConfig(mock *mocks.MockElevenLabs) ElevenLabsConfig {
	cfg := DefaultElevenLabsConfig()
	cfg.BaseURL = mock.URL() + "/v1"
	return cfg
}

func TestElevenLabsTextToSpeech_LogsCharacterCount(t *testing.T) {
	mock := mocks.NewMockElevenLabs().WithAudio("/v1/text-to-speech/Rachel", testutil.AudioBytes(1024))
	defer mock.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	h := NewElevenLabsTextToSpeech(newMockConfig(mock), StaticSecrets{SecretAPIKey: "k"}, zap.New(core),
		WithHTTPClient(mock.Client()))

	// 6 个字符，18 个字节
	resp, err := h.Convert(testutil.TestContext(t), &SpeechRequest{Input: "你好，世界！", Voice: "Rachel"})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Hidden.PromptCharacters)

	entries := logs.FilterMessage("elevenlabs speech request").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 6, entries[0].ContextMap()["input_chars"])
}

func TestElevenLabsTextToSpeech_Convert(t *testing.T) {
	audio := testutil.AudioBytes(160 * 1024)
	mock := mocks.NewMockElevenLabs().WithAudio("/v1/text-to-speech/Rachel", audio)
	defer mock.Close()

	rec := &fakeRecorder{}
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewElevenLabsTextToSpeech(newMockConfig(mock), StaticSecrets{SecretAPIKey: "sk-test"}, zap.New(core),
		WithHTTPClient(mock.Client()),
		WithCostCalculator(observability.NewCostCalculator()),
		WithRecorder(rec))

	resp, err := h.Convert(testutil.TestContext(t), &SpeechRequest{
		Model: "elevenlabs/eleven_multilingual_v2",
		Input: "Hello, this is a test of ElevenLabs text to speech.",
		Voice: "Rachel",
		OptionalParams: map[string]any{
			"speed":           1.0,
			"response_format": "mp3",
			"temperature":     0.7,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, audio, resp.Content)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.ContentType())
	assert.Equal(t, "eleven_multilingual_v2", resp.Hidden.Model)
	assert.Equal(t, "sk-test", resp.Hidden.APIKey)
	assert.Equal(t, 51, resp.Hidden.PromptCharacters)
	assert.InDelta(t, 10.0, resp.Hidden.AudioDurationSeconds, 1e-9)
	assert.InDelta(t, 10*0.00045, resp.Hidden.ResponseCost, 1e-12)
	assert.Equal(t, 0.00045, resp.Hidden.CostPerSecond)

	require.Equal(t, 1, mock.CallCount())
	last, _ := mock.LastRequest()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/v1/text-to-speech/Rachel", last.Path)
	assert.Equal(t, "sk-test", last.Header.Get("xi-api-key"))
	assert.Equal(t, "application/json", last.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(last.Body, &body))
	assert.Equal(t, "Hello, this is a test of ElevenLabs text to speech.", body["text"])
	assert.Equal(t, "Rachel", body["voice_id"])
	assert.Equal(t, "eleven_multilingual_v2", body["model_id"])
	assert.Equal(t, 1.0, body["speed"])
	assert.Equal(t, "mp3", body["output_format"])
	assert.NotContains(t, body, "temperature")

	require.Len(t, rec.tts, 1)
	assert.Equal(t, "success", rec.tts[0].status)
	assert.Equal(t, 160*1024, rec.tts[0].audioBytes)

	entries := logs.FilterMessage("speech synthesized").All()
	require.Len(t, entries, 1)
	for _, f := range entries[0].Context {
		assert.NotEqual(t, "sk-test", f.String, "api key must not be logged")
	}
}

func TestElevenLabsTextToSpeech_ConvertWithoutSpeedOmitsModel(t *testing.T) {
	mock := mocks.NewMockElevenLabs().WithAudio("/v1/text-to-speech/21m00Tcm4TlvDq8ikWAM", []byte("ID3"))
	defer mock.Close()

	h := NewElevenLabsTextToSpeech(newMockConfig(mock), nil, nil, WithHTTPClient(mock.Client()))

	resp, err := h.Convert(testutil.TestContext(t), &SpeechRequest{
		Model:  "eleven_multilingual_v2",
		Input:  "hi",
		APIKey: "explicit-key",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Hidden.PromptCharacters)
	// 未配置计费器时不填充成本
	assert.Zero(t, resp.Hidden.ResponseCost)

	last, _ := mock.LastRequest()
	assert.Equal(t, "explicit-key", last.Header.Get("xi-api-key"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(last.Body, &body))
	assert.NotContains(t, body, "model_id")
	assert.NotContains(t, body, "speed")
	assert.NotContains(t, body, "output_format")
}

func TestElevenLabsTextToSpeech_APIBaseOverride(t *testing.T) {
	mock := mocks.NewMockElevenLabs().WithAudio("/custom/text-to-speech/Rachel", []byte("ID3"))
	defer mock.Close()

	h := NewElevenLabsTextToSpeech(DefaultElevenLabsConfig(), StaticSecrets{SecretAPIKey: "k"}, nil,
		WithHTTPClient(mock.Client()))

	_, err := h.Convert(testutil.TestContext(t), &SpeechRequest{
		Input:   "hi",
		Voice:   "Rachel",
		APIBase: mock.URL() + "/custom/",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestElevenLabsTextToSpeech_MissingKey(t *testing.T) {
	mock := mocks.NewMockElevenLabs()
	defer mock.Close()

	rec := &fakeRecorder{}
	h := NewElevenLabsTextToSpeech(newMockConfig(mock), StaticSecrets{}, nil,
		WithHTTPClient(mock.Client()), WithRecorder(rec))

	_, err := h.Convert(testutil.TestContext(t), &SpeechRequest{Input: "hi", Voice: "Rachel"})
	require.Error(t, err)

	assert.True(t, types.IsAuthentication(err))
	assert.Equal(t, http.StatusUnauthorized, types.StatusCode(err))
	assert.Contains(t, err.Error(), "Missing ElevenLabs API key")
	assert.Equal(t, 0, mock.CallCount(), "no network call without credentials")

	require.Len(t, rec.tts, 1)
	assert.Equal(t, "auth_error", rec.tts[0].status)
}

func TestElevenLabsTextToSpeech_RemoteError(t *testing.T) {
	mock := mocks.NewMockElevenLabs().WithRoute(http.MethodPost, "/v1/text-to-speech/Rachel",
		http.StatusInternalServerError, []byte("Internal Server Error"), map[string]string{"X-Trace": "abc"})
	defer mock.Close()

	h := NewElevenLabsTextToSpeech(newMockConfig(mock), StaticSecrets{SecretAPIKey: "k"}, nil,
		WithHTTPClient(mock.Client()))

	resp, err := h.Convert(testutil.TestContext(t), &SpeechRequest{Input: "hi", Voice: "Rachel"})
	require.Error(t, err)
	assert.Nil(t, resp)

	e, ok := types.AsError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrUpstreamError, e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus)
	assert.Equal(t, "ElevenLabs API Error: 500 - Internal Server Error", e.Message)
	assert.Equal(t, "abc", e.Headers.Get("X-Trace"))
	assert.Equal(t, 1, mock.CallCount(), "remote errors are not retried")
}

func TestElevenLabsTextToSpeech_Timeout(t *testing.T) {
	mock := mocks.NewMockElevenLabs().
		WithAudio("/v1/text-to-speech/Rachel", []byte("ID3")).
		WithDelay(500 * time.Millisecond)
	defer mock.Close()

	h := NewElevenLabsTextToSpeech(newMockConfig(mock), StaticSecrets{SecretAPIKey: "k"}, nil,
		WithHTTPClient(mock.Client()))

	_, err := h.Convert(testutil.TestContext(t), &SpeechRequest{
		Input:   "hi",
		Voice:   "Rachel",
		Timeout: 20 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	_, isTyped := types.AsError(err)
	assert.False(t, isTyped, "transport failures are not converted")
}

func TestElevenLabsTextToSpeech_NilRequest(t *testing.T) {
	h := NewElevenLabsTextToSpeech(DefaultElevenLabsConfig(), nil, nil)
	_, err := h.Convert(context.Background(), nil)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
}
