package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BaSui01/voicebridge/types"
)

// 远端错误消息前缀
const (
	errPrefixSpeech      = "ElevenLabs API Error"
	errPrefixVoiceCreate = "ElevenLabs Voice Creation Error"
	errPrefixVoiceDelete = "ElevenLabs Voice Deletion Error"
	errPrefixVoiceGet    = "ElevenLabs Voice Retrieval Error"
	errPrefixVoiceList   = "ElevenLabs Voice List Error"
)

// 缺少凭据时的提示（TTS 与声音管理措辞不同）
const (
	msgMissingKeySpeech = "Missing ElevenLabs API key. Set the ELEVENLABS_API_KEY environment variable or pass it as api_key."
	msgMissingKeyVoice  = "Missing ElevenLabs API key. Set ELEVENLABS_API_KEY environment variable or pass api_key parameter."
)

// maxErrorBody 错误响应体读取上限
const maxErrorBody = 64 << 10

func newAuthError(message string) *types.Error {
	return types.NewError(types.ErrAuthentication, message).
		WithHTTPStatus(http.StatusUnauthorized).
		WithProvider(ProviderName).
		WithHeaders(nil)
}

func newRemoteError(message string, status int, headers http.Header) *types.Error {
	return types.NewError(types.ErrUpstreamError, message).
		WithHTTPStatus(status).
		WithProvider(ProviderName).
		WithHeaders(headers)
}

func newInvalidRequestError(message string) *types.Error {
	return types.NewError(types.ErrInvalidRequest, message).
		WithHTTPStatus(http.StatusBadRequest).
		WithProvider(ProviderName)
}

// remoteMessage 格式化为 "<prefix>: <status> - <body>"
func remoteMessage(prefix string, status int, body []byte) string {
	return fmt.Sprintf("%s: %d - %s", prefix, status, string(body))
}

// readRemoteError 读取失败响应并构造远端错误
func readRemoteError(resp *http.Response, prefix string) *types.Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newRemoteError(remoteMessage(prefix, resp.StatusCode, body), resp.StatusCode, resp.Header)
}

// outcome 将错误归类为指标标签
func outcome(err error) (status, code string) {
	if err == nil {
		return "success", ""
	}
	if e, ok := types.AsError(err); ok {
		switch e.Code {
		case types.ErrAuthentication:
			return "auth_error", string(e.Code)
		case types.ErrInvalidRequest:
			return "invalid_request", string(e.Code)
		default:
			return "upstream_error", string(e.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", string(types.ErrUpstreamTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return "canceled", "CANCELED"
	}
	return "transport_error", "TRANSPORT"
}
