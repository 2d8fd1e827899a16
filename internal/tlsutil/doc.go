// Package tlsutil 提供访问 ElevenLabs 的共享出站客户端，
// 包括连接池参数与安全加固的 TLS 设置（TLS 1.2+，仅 AEAD 密码套件）。
package tlsutil
