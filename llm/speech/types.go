package speech

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ============================================================
// 文字转语音 (TTS)
// ============================================================

// SpeechRequest 统一的文字转语音请求描述.
//
// OptionalParams 为调用方传入的 OpenAI 风格参数（voice / speed / response_format），
// 不支持的键在 MapParams 阶段被丢弃而不是报错。Params 为透传的供应商参数。
type SpeechRequest struct {
	Model          string         `json:"model"`
	Input          string         `json:"input"`
	Voice          string         `json:"voice"`
	APIKey         string         `json:"-"`
	APIBase        string         `json:"api_base,omitempty"`
	Timeout        time.Duration  `json:"timeout,omitempty"`
	OptionalParams map[string]any `json:"optional_params,omitempty"`
	Params         map[string]any `json:"params,omitempty"`
}

// HiddenParams 计费与审计元数据，随 BinaryResponse 一起返回给上层.
type HiddenParams struct {
	Model                string
	APIKey               string
	PromptCharacters     int
	AudioDurationSeconds float64
	ResponseCost         float64
	CostPerSecond        float64
}

func (h HiddenParams) String() string {
	key := ""
	if h.APIKey != "" {
		key = "***"
	}
	return fmt.Sprintf("HiddenParams{Model:%s, APIKey:%s, PromptCharacters:%d, AudioDurationSeconds:%g, ResponseCost:%g, CostPerSecond:%g}",
		h.Model, key, h.PromptCharacters, h.AudioDurationSeconds, h.ResponseCost, h.CostPerSecond)
}

func (h HiddenParams) MarshalJSON() ([]byte, error) {
	m := h.AsMap()
	if h.APIKey != "" {
		m["api_key"] = "***"
	}
	return json.Marshal(m)
}

// AsMap 以下游计费使用的键名导出元数据。
// 注意：返回值包含原始 api_key，仅供进程内传递，不要直接序列化。
func (h HiddenParams) AsMap() map[string]any {
	return map[string]any{
		"model":                  h.Model,
		"api_key":                h.APIKey,
		"prompt_characters":      h.PromptCharacters,
		"audio_duration_seconds": h.AudioDurationSeconds,
		"response_cost":          h.ResponseCost,
		"cost_per_second":        h.CostPerSecond,
	}
}

// BinaryResponse 内存中的音频响应.
type BinaryResponse struct {
	Content    []byte
	StatusCode int
	Header     http.Header
	Hidden     HiddenParams
}

// ContentType 返回响应的 Content-Type，缺省为 audio/mpeg.
func (r *BinaryResponse) ContentType() string {
	if r.Header != nil {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	return audioMPEG
}

// SaveToFile 将音频内容写入文件。
func (r *BinaryResponse) SaveToFile(path string) error {
	if err := os.WriteFile(path, r.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// ============================================================
// 声音管理
// ============================================================

// Voice 远端声音资源.
type Voice struct {
	VoiceID              string            `json:"voice_id"`
	Name                 string            `json:"name,omitempty"`
	Description          string            `json:"description,omitempty"`
	Status               string            `json:"status,omitempty"`
	Category             string            `json:"category,omitempty"`
	Labels               map[string]string `json:"labels,omitempty"`
	PreviewURL           string            `json:"preview_url,omitempty"`
	Samples              []VoiceSample     `json:"samples,omitempty"`
	RequiresVerification bool              `json:"requires_verification,omitempty"`
}

// VoiceSample 声音的训练样本.
type VoiceSample struct {
	SampleID  string `json:"sample_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// VoiceList GET /voices 的响应.
type VoiceList struct {
	Voices []Voice `json:"voices"`
}

// DeleteVoiceResponse DELETE /voices/{id} 的响应.
type DeleteVoiceResponse struct {
	Status string `json:"status"`
}

// CallOptions 单次调用的凭据与超时覆盖，零值表示使用默认配置.
type CallOptions struct {
	APIKey  string
	Timeout time.Duration
}

// CreateVoiceRequest 克隆声音请求，Files 为音频样本原始字节.
type CreateVoiceRequest struct {
	Name        string
	Files       [][]byte
	Description string
	CallOptions
}
