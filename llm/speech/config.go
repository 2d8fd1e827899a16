package speech

import (
	"strings"
	"time"
)

const (
	// ProviderName 供应商标识，用于错误、指标与价格表
	ProviderName = "elevenlabs"

	DefaultAPIBase = "https://api.elevenlabs.io/v1"
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	DefaultModel   = "eleven_multilingual_v2"

	audioMPEG = "audio/mpeg"
)

// ElevenLabsConfig 配置了 ElevenLabs TTS 与声音管理.
// 凭据不在此处，由 SecretResolver 提供。
type ElevenLabsConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`       // eleven_multilingual_v2
	VoiceID string        `json:"voice_id,omitempty" yaml:"voice_id,omitempty"` // 缺省声音
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultElevenLabsConfig 返回默认的 ElevenLabs 配置 。
func DefaultElevenLabsConfig() ElevenLabsConfig {
	return ElevenLabsConfig{
		BaseURL: DefaultAPIBase,
		Model:   DefaultModel,
		VoiceID: DefaultVoiceID,
		Timeout: 60 * time.Second,
	}
}

// withDefaults 填充零值字段
func (c ElevenLabsConfig) withDefaults() ElevenLabsConfig {
	d := DefaultElevenLabsConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.VoiceID == "" {
		c.VoiceID = d.VoiceID
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// NormalizeModel 去掉 "elevenlabs/" 路由前缀，空值回退到 fallback.
func NormalizeModel(model, fallback string) string {
	model = strings.TrimPrefix(strings.TrimSpace(model), ProviderName+"/")
	if model == "" {
		return fallback
	}
	return model
}
