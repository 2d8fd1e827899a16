package speech

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// elevenLabsFormats OpenAI response_format → ElevenLabs output_format.
// ElevenLabs 只接受 mp3 族格式，其余一律回退为 mp3。
var elevenLabsFormats = map[string]string{
	"mp3":  "mp3",
	"opus": "mp3",
	"aac":  "mp3",
	"flac": "mp3",
}

var elevenLabsParams = []string{"voice", "speed", "response_format"}

// ElevenLabsTTSConfig 实现 ElevenLabs 的 TextToSpeechConfig.
type ElevenLabsTTSConfig struct {
	cfg     ElevenLabsConfig
	secrets SecretResolver
}

var _ TextToSpeechConfig = (*ElevenLabsTTSConfig)(nil)

// NewElevenLabsTTSConfig 创建 ElevenLabs 转换器，secrets 为 nil 时只使用显式参数。
func NewElevenLabsTTSConfig(cfg ElevenLabsConfig, secrets SecretResolver) *ElevenLabsTTSConfig {
	return &ElevenLabsTTSConfig{cfg: cfg.withDefaults(), secrets: secrets}
}

func (c *ElevenLabsTTSConfig) SupportedParams(model string) []string {
	out := make([]string, len(elevenLabsParams))
	copy(out, elevenLabsParams)
	return out
}

// MapParams 宽松映射：不支持的参数直接丢弃，dropParams 仅为契约保留。
func (c *ElevenLabsTTSConfig) MapParams(nonDefault, optional map[string]any, model string, dropParams bool) map[string]any {
	if optional == nil {
		optional = make(map[string]any, len(nonDefault))
	}
	for _, name := range c.SupportedParams(model) {
		if v, ok := nonDefault[name]; ok {
			optional[name] = v
		}
	}
	return optional
}

func (c *ElevenLabsTTSConfig) ValidateEnvironment(apiKey string) (map[string]string, error) {
	key, ok := resolveAPIKey(apiKey, c.secrets)
	if !ok {
		return nil, newAuthError(msgMissingKeySpeech)
	}
	return map[string]string{
		"xi-api-key":   key,
		"Content-Type": "application/json",
	}, nil
}

// TransformRequest 构造请求体。model_id/speed 仅在 speed 出现时写入。
func (c *ElevenLabsTTSConfig) TransformRequest(model, input, voice string, optional, params map[string]any) map[string]any {
	body := map[string]any{
		"voice_id": voice,
		"text":     input,
	}

	if speed, ok := optional["speed"]; ok {
		body["model_id"] = model
		if speed == nil {
			speed = 1.0
		}
		body["speed"] = speed
	}

	if format, ok := optional["response_format"]; ok {
		body["output_format"] = mapOutputFormat(format)
	}

	return body
}

func mapOutputFormat(v any) string {
	s, _ := v.(string)
	if f, ok := elevenLabsFormats[s]; ok {
		return f
	}
	return "mp3"
}

// CompleteURL 地址优先级：apiBase > ELEVENLABS_API_BASE > 配置。
// optional 中的 voice_id 决定路径，缺省使用配置的声音。
func (c *ElevenLabsTTSConfig) CompleteURL(apiBase, model string, optional, params map[string]any) string {
	base := strings.TrimRight(apiBase, "/")
	if base == "" {
		base = ResolveBaseURL(c.cfg.BaseURL, c.secrets)
	}

	voiceID, _ := optional["voice_id"].(string)
	if voiceID == "" {
		voiceID = c.cfg.VoiceID
	}

	return base + "/text-to-speech/" + url.PathEscape(voiceID)
}

func (c *ElevenLabsTTSConfig) TransformResponse(model string, raw *http.Response, resp *BinaryResponse, requestData map[string]any, apiKey string) *BinaryResponse {
	input, _ := requestData["input"].(string)
	resp.Hidden.Model = model
	resp.Hidden.APIKey = apiKey
	resp.Hidden.PromptCharacters = utf8.RuneCountInString(input)
	return resp
}

func (c *ElevenLabsTTSConfig) ErrorClass(message string, status int, headers http.Header) error {
	return newRemoteError(message, status, headers)
}
