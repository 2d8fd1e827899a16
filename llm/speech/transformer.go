package speech

import "net/http"

// TextToSpeechConfig 文字转语音供应商的转换契约.
//
// 实现只负责请求/响应形状的转换，不发起网络调用；网络调用由 handler 完成。
type TextToSpeechConfig interface {
	// SupportedParams 返回供应商接受的 OpenAI 风格参数名.
	SupportedParams(model string) []string

	// MapParams 将 nonDefault 中受支持的参数复制到 optional，其余丢弃.
	MapParams(nonDefault, optional map[string]any, model string, dropParams bool) map[string]any

	// ValidateEnvironment 解析凭据并返回请求头，缺少凭据时返回认证错误.
	ValidateEnvironment(apiKey string) (map[string]string, error)

	// TransformRequest 构造供应商原生请求体.
	TransformRequest(model, input, voice string, optional, params map[string]any) map[string]any

	// CompleteURL 计算完整的请求地址.
	CompleteURL(apiBase, model string, optional, params map[string]any) string

	// TransformResponse 为响应附加计费元数据.
	TransformResponse(model string, raw *http.Response, resp *BinaryResponse, requestData map[string]any, apiKey string) *BinaryResponse

	// ErrorClass 将远端失败转换为错误值.
	ErrorClass(message string, status int, headers http.Header) error
}
