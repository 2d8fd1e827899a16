package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/types"
	"go.uber.org/zap"
)

// 声音管理操作名，用于指标与 span
const (
	VoiceOpCreate = "create"
	VoiceOpDelete = "delete"
	VoiceOpGet    = "get"
	VoiceOpList   = "list"
)

// VoiceManager 管理 ElevenLabs 远端声音资源，不保存任何本地状态.
type VoiceManager struct {
	cfg     ElevenLabsConfig
	secrets SecretResolver
	opts    options
	logger  *zap.Logger
}

// NewVoiceManager 创建声音管理器.
func NewVoiceManager(cfg ElevenLabsConfig, secrets SecretResolver, logger *zap.Logger, opts ...Option) *VoiceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoiceManager{
		cfg:     cfg.withDefaults(),
		secrets: secrets,
		opts:    buildOptions(opts),
		logger:  logger.With(zap.String("component", "elevenlabs_voices")),
	}
}

// voiceCall 描述一次声音管理请求
type voiceCall struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	errPrefix   string
	accept      func(status int) bool
	opts        CallOptions

	// 远端 404 表示声音不存在（Get/Delete），状态码与消息保持不变
	notFoundIsVoice bool
}

func statusOK(status int) bool { return status == http.StatusOK }

func statusOKOrCreated(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

// Create 上传音频样本克隆新声音，成功状态为 200 或 201.
func (m *VoiceManager) Create(ctx context.Context, req CreateVoiceRequest) (*Voice, error) {
	body, contentType, err := buildVoiceForm(req)
	if err != nil {
		return nil, err
	}

	var voice Voice
	err = m.do(ctx, voiceCall{
		op:          VoiceOpCreate,
		method:      http.MethodPost,
		path:        "/voices/add",
		body:        body,
		contentType: contentType,
		errPrefix:   errPrefixVoiceCreate,
		accept:      statusOKOrCreated,
		opts:        req.CallOptions,
	}, &voice)
	if err != nil {
		return nil, err
	}
	return &voice, nil
}

// Delete 删除声音.
func (m *VoiceManager) Delete(ctx context.Context, voiceID string, opts CallOptions) (*DeleteVoiceResponse, error) {
	if strings.TrimSpace(voiceID) == "" {
		return nil, newInvalidRequestError("voice_id is required")
	}

	var out DeleteVoiceResponse
	err := m.do(ctx, voiceCall{
		op:              VoiceOpDelete,
		method:          http.MethodDelete,
		path:            "/voices/" + url.PathEscape(voiceID),
		errPrefix:       errPrefixVoiceDelete,
		accept:          statusOK,
		opts:            opts,
		notFoundIsVoice: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get 获取单个声音详情.
func (m *VoiceManager) Get(ctx context.Context, voiceID string, opts CallOptions) (*Voice, error) {
	if strings.TrimSpace(voiceID) == "" {
		return nil, newInvalidRequestError("voice_id is required")
	}

	var voice Voice
	err := m.do(ctx, voiceCall{
		op:              VoiceOpGet,
		method:          http.MethodGet,
		path:            "/voices/" + url.PathEscape(voiceID),
		errPrefix:       errPrefixVoiceGet,
		accept:          statusOK,
		opts:            opts,
		notFoundIsVoice: true,
	}, &voice)
	if err != nil {
		return nil, err
	}
	return &voice, nil
}

// List 列出账户下全部声音（不分页）.
func (m *VoiceManager) List(ctx context.Context, opts CallOptions) (*VoiceList, error) {
	var list VoiceList
	err := m.do(ctx, voiceCall{
		op:        VoiceOpList,
		method:    http.MethodGet,
		path:      "/voices",
		errPrefix: errPrefixVoiceList,
		accept:    statusOK,
		opts:      opts,
	}, &list)
	if err != nil {
		return nil, err
	}
	if list.Voices == nil {
		list.Voices = []Voice{}
	}
	return &list, nil
}

func (m *VoiceManager) do(ctx context.Context, call voiceCall, out any) (err error) {
	start := time.Now()
	attrs := observability.RequestAttrs{Provider: ProviderName, Operation: "voice." + call.op}
	if m.opts.metrics != nil {
		spanCtx, span := m.opts.metrics.StartRequest(ctx, attrs)
		ctx = spanCtx
		defer func() {
			status, code := outcome(err)
			m.opts.metrics.EndRequest(spanCtx, span, attrs, observability.ResponseAttrs{
				Status:    status,
				ErrorCode: code,
				Duration:  time.Since(start),
			})
		}()
	}
	requestID, _ := types.RequestID(ctx)
	defer func() { m.report(call.op, requestID, start, err) }()

	key, ok := resolveAPIKey(call.opts.APIKey, m.secrets)
	if !ok {
		return newAuthError(msgMissingKeyVoice)
	}

	timeout := call.opts.Timeout
	if timeout <= 0 {
		timeout = m.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if call.body != nil {
		body = bytes.NewReader(call.body)
	}
	endpoint := strings.TrimRight(m.cfg.BaseURL, "/") + call.path
	httpReq, err := http.NewRequestWithContext(ctx, call.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", key)
	if call.contentType != "" {
		httpReq.Header.Set("Content-Type", call.contentType)
	} else {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.opts.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("elevenlabs voice %s failed: %w", call.op, err)
	}
	defer resp.Body.Close()

	if !call.accept(resp.StatusCode) {
		m.logger.Warn("elevenlabs voice request rejected",
			zap.String("operation", call.op),
			zap.Int("status", resp.StatusCode))
		remoteErr := readRemoteError(resp, call.errPrefix)
		if call.notFoundIsVoice && resp.StatusCode == http.StatusNotFound {
			remoteErr.Code = types.ErrVoiceNotFound
		}
		return remoteErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode elevenlabs voice %s response: %w", call.op, err)
	}
	return nil
}

func (m *VoiceManager) report(op, requestID string, start time.Time, err error) {
	status, _ := outcome(err)
	duration := time.Since(start)
	if m.opts.recorder != nil {
		m.opts.recorder.RecordVoiceOperation(ProviderName, op, status, duration)
	}
	if err != nil {
		m.logger.Warn("voice operation failed",
			zap.String("request_id", requestID),
			zap.String("operation", op),
			zap.String("status", status),
			zap.Error(err))
		return
	}
	m.logger.Debug("voice operation completed",
		zap.String("request_id", requestID),
		zap.String("operation", op),
		zap.Duration("duration", duration))
}

// buildVoiceForm 构造 multipart 表单：name、可选 description、每个样本一个 files 部分
func buildVoiceForm(req CreateVoiceRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("name", req.Name); err != nil {
		return nil, "", fmt.Errorf("failed to write name field: %w", err)
	}
	if req.Description != "" {
		if err := writer.WriteField("description", req.Description); err != nil {
			return nil, "", fmt.Errorf("failed to write description field: %w", err)
		}
	}

	for i, data := range req.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="audio_%d.mp3"`, i))
		h.Set("Content-Type", audioMPEG)
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
