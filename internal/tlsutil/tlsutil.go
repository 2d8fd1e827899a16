// Package tlsutil builds the hardened outbound HTTP client used for ElevenLabs.
// 安全加固：TLS 1.2+，仅 AEAD 密码套件。
package tlsutil

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// DefaultMaxIdleConns 单一上游的默认空闲连接数
const DefaultMaxIdleConns = 32

// ClientTLSConfig returns the TLS configuration for outbound calls.
// MinVersion TLS 1.2, AEAD-only cipher suites for TLS 1.2 handshakes.
func ClientTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		},
	}
}

// UpstreamTransport returns a pooled transport tuned for a single upstream host.
// 所有连接都指向同一主机，因此 MaxIdleConnsPerHost 与 MaxIdleConns 相同。
func UpstreamTransport(maxIdleConns int) *http.Transport {
	if maxIdleConns <= 0 {
		maxIdleConns = DefaultMaxIdleConns
	}
	return &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: ClientTLSConfig(),
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// UpstreamClient returns a shared client without a global timeout.
// 每次调用的超时由 context 控制，音频下载时长与文本长度相关。
func UpstreamClient(maxIdleConns int) *http.Client {
	return &http.Client{Transport: UpstreamTransport(maxIdleConns)}
}
