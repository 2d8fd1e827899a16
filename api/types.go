package api

import (
	"encoding/json"
	"time"
)

// =============================================================================
// 文字转语音类型
// =============================================================================

// SpeechRequest 表示 OpenAI 风格的语音合成请求。
// @Description 语音合成请求结构
type SpeechRequest struct {
	// 模型名称，可带 "elevenlabs/" 路由前缀
	Model string `json:"model" example:"elevenlabs/eleven_multilingual_v2"`
	// 待合成文本
	Input string `json:"input" example:"Hello world" binding:"required"`
	// 声音 ID，为空时使用配置的默认声音
	Voice string `json:"voice,omitempty" example:"21m00Tcm4TlvDq8ikWAM"`
	// 语速，nil 表示不指定
	Speed *float64 `json:"speed,omitempty" example:"1.0"`
	// 输出格式（mp3、opus、aac、flac），ElevenLabs 统一输出 mp3
	ResponseFormat string `json:"response_format,omitempty" example:"mp3"`
	// 请求超时时长
	Timeout string `json:"timeout,omitempty" example:"30s"`
	// 未建模的字段（instructions、stream_format 等），交给 provider 映射阶段处理
	Extra map[string]any `json:"-"`
}

var speechRequestFields = []string{"model", "input", "voice", "speed", "response_format", "timeout"}

// UnmarshalJSON 宽松解码：未知字段收集到 Extra，而不是报错。
func (r *SpeechRequest) UnmarshalJSON(data []byte) error {
	type Alias SpeechRequest
	var p Alias
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range speechRequestFields {
		delete(raw, k)
	}
	p.Extra = nil
	if len(raw) > 0 {
		p.Extra = raw
	}

	*r = SpeechRequest(p)
	return nil
}

// 语音响应头，音频字节以外的计费元数据通过响应头返回
const (
	HeaderPromptCharacters     = "X-Prompt-Characters"
	HeaderAudioDurationSeconds = "X-Audio-Duration-Seconds"
	HeaderResponseCost         = "X-Response-Cost"
	HeaderModel                = "X-Model"
)

// =============================================================================
// 声音管理类型
// =============================================================================

// CreateVoiceRequest 表示克隆声音请求。
// @Description 创建声音请求结构
type CreateVoiceRequest struct {
	// 声音名称
	Name string `json:"name" example:"Narrator" binding:"required"`
	// 描述（可选）
	Description string `json:"description,omitempty" example:"Warm narrator voice"`
	// base64 编码的音频样本
	Files []string `json:"files" binding:"required"`
}

// DeleteVoiceResponse 表示删除声音的结果。
// @Description 删除声音响应结构
type DeleteVoiceResponse struct {
	VoiceID string `json:"voice_id" example:"test-voice-id-123"`
	Status  string `json:"status" example:"ok"`
}

// =============================================================================
// 用量类型
// =============================================================================

// UsageResponse 表示进程启动以来的合成用量。
// @Description 用量汇总
type UsageResponse struct {
	Requests          int       `json:"requests"`
	Characters        int       `json:"characters"`
	AudioSeconds      float64   `json:"audio_seconds"`
	TotalCost         float64   `json:"total_cost"`
	AvgCostPerRequest float64   `json:"avg_cost_per_request"`
	Since             time.Time `json:"since"`
}
