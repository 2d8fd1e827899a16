package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeechRequest_UnmarshalCollectsExtra(t *testing.T) {
	var req SpeechRequest
	err := json.Unmarshal([]byte(`{"model":"tts-1","input":"hello","voice":"Rachel","speed":1.5,"instructions":"speak calmly","stream_format":"sse"}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "tts-1", req.Model)
	assert.Equal(t, "hello", req.Input)
	assert.Equal(t, "Rachel", req.Voice)
	require.NotNil(t, req.Speed)
	assert.Equal(t, 1.5, *req.Speed)
	assert.Equal(t, map[string]any{"instructions": "speak calmly", "stream_format": "sse"}, req.Extra)
}

func TestSpeechRequest_UnmarshalWithoutExtra(t *testing.T) {
	var req SpeechRequest
	require.NoError(t, json.Unmarshal([]byte(`{"input":"hi","timeout":"5s"}`), &req))
	assert.Nil(t, req.Extra)
	assert.Equal(t, "5s", req.Timeout)
}

func TestSpeechRequest_UnmarshalTypeMismatch(t *testing.T) {
	var req SpeechRequest
	assert.Error(t, json.Unmarshal([]byte(`{"input":42}`), &req))
}
