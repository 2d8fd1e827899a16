// MockElevenLabs 的 ElevenLabs 上游测试模拟实现。
//
// 基于 httptest.Server，按 "METHOD /path" 配置固定响应，并记录每一次请求。
package mocks

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// --- MockElevenLabs 结构 ---

// MockRoute 单条路由的固定响应
type MockRoute struct {
	Status  int
	Body    []byte
	Headers map[string]string
}

// RecordedRequest 记录的入站请求（Body 已完整读出）
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// MockElevenLabs 是 ElevenLabs API 的模拟服务器
type MockElevenLabs struct {
	mu sync.RWMutex

	server   *httptest.Server
	routes   map[string]MockRoute
	fallback MockRoute
	delay    time.Duration

	requests []RecordedRequest
}

// --- 构造函数和 Builder 方法 ---

// NewMockElevenLabs 启动模拟服务器，调用方负责 Close
func NewMockElevenLabs() *MockElevenLabs {
	m := &MockElevenLabs{
		routes: make(map[string]MockRoute),
		fallback: MockRoute{
			Status: http.StatusNotFound,
			Body:   []byte(`{"detail":{"status":"not_found","message":"route not mocked"}}`),
		},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// WithRoute 为 "METHOD /path" 设置响应
func (m *MockElevenLabs) WithRoute(method, path string, status int, body []byte, headers map[string]string) *MockElevenLabs {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[method+" "+path] = MockRoute{Status: status, Body: body, Headers: headers}
	return m
}

// WithJSON 设置 JSON 响应
func (m *MockElevenLabs) WithJSON(method, path string, status int, body string) *MockElevenLabs {
	return m.WithRoute(method, path, status, []byte(body), map[string]string{"Content-Type": "application/json"})
}

// WithAudio 设置音频响应（audio/mpeg）
func (m *MockElevenLabs) WithAudio(path string, audio []byte) *MockElevenLabs {
	return m.WithRoute(http.MethodPost, path, http.StatusOK, audio, map[string]string{"Content-Type": "audio/mpeg"})
}

// WithDelay 设置响应延迟
func (m *MockElevenLabs) WithDelay(d time.Duration) *MockElevenLabs {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// --- 访问器 ---

// URL 返回服务器根地址（不含 /v1）
func (m *MockElevenLabs) URL() string {
	return m.server.URL
}

// Client 返回与服务器匹配的 http.Client
func (m *MockElevenLabs) Client() *http.Client {
	return m.server.Client()
}

// Close 关闭服务器
func (m *MockElevenLabs) Close() {
	m.server.Close()
}

// Requests 返回已记录请求的副本
func (m *MockElevenLabs) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount 返回请求次数
func (m *MockElevenLabs) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest 返回最后一次请求，没有请求时 ok 为 false
func (m *MockElevenLabs) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// --- HTTP 处理 ---

func (m *MockElevenLabs) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	route, ok := m.routes[r.Method+" "+r.URL.Path]
	if !ok {
		route = m.fallback
	}
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range route.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(route.Status)
	_, _ = io.Copy(w, bytes.NewReader(route.Body))
}
