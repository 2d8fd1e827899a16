package speech

import (
	"os"
	"strings"
)

// 凭据与地址的密钥名
const (
	SecretAPIKey       = "ELEVENLABS_API_KEY"
	SecretAPIKeyLegacy = "ELEVEN_LABS_API_KEY"
	SecretAPIBase      = "ELEVENLABS_API_BASE"
)

// SecretResolver 按名称解析密钥，空值视为不存在.
type SecretResolver interface {
	Secret(name string) (string, bool)
}

// EnvSecrets 从进程环境变量读取密钥.
type EnvSecrets struct{}

func (EnvSecrets) Secret(name string) (string, bool) {
	v := os.Getenv(name)
	return v, v != ""
}

// StaticSecrets 固定的密钥表，通常由配置文件填充.
type StaticSecrets map[string]string

func (s StaticSecrets) Secret(name string) (string, bool) {
	v := s[name]
	return v, v != ""
}

// LabeledSecrets 给解析器加上来源标签（如 "config"），就绪检查据此报告凭据来源.
type LabeledSecrets struct {
	Label string
	SecretResolver
}

// ChainSecrets 依次查询，第一个命中者胜出.
type ChainSecrets []SecretResolver

func (c ChainSecrets) Secret(name string) (string, bool) {
	v, _, ok := c.Lookup(name)
	return v, ok
}

// Lookup 与 Secret 相同，另外返回命中解析器的来源标签.
func (c ChainSecrets) Lookup(name string) (value, source string, ok bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.Secret(name); ok {
			return v, sourceLabel(r), true
		}
	}
	return "", "", false
}

func sourceLabel(r SecretResolver) string {
	switch r := r.(type) {
	case LabeledSecrets:
		return r.Label
	case EnvSecrets:
		return "env"
	case StaticSecrets:
		return "static"
	default:
		return "custom"
	}
}

// CredentialSource 报告 API Key 将从何处解析，形如 "env:ELEVENLABS_API_KEY"。
// 只给出来源，不返回密钥本身。
func CredentialSource(secrets SecretResolver) (string, bool) {
	if secrets == nil {
		return "", false
	}
	for _, name := range []string{SecretAPIKey, SecretAPIKeyLegacy} {
		if chain, isChain := secrets.(ChainSecrets); isChain {
			if _, source, ok := chain.Lookup(name); ok {
				return source + ":" + name, true
			}
			continue
		}
		if _, ok := secrets.Secret(name); ok {
			return sourceLabel(secrets) + ":" + name, true
		}
	}
	return "", false
}

// ResolveBaseURL 地址优先级：ELEVENLABS_API_BASE > configured > 默认地址，去掉末尾 "/"。
func ResolveBaseURL(configured string, secrets SecretResolver) string {
	var base string
	if secrets != nil {
		base, _ = secrets.Secret(SecretAPIBase)
	}
	if base == "" {
		base = configured
	}
	if base == "" {
		base = DefaultAPIBase
	}
	return strings.TrimRight(base, "/")
}

// resolveAPIKey 显式参数 > ELEVENLABS_API_KEY > ELEVEN_LABS_API_KEY
func resolveAPIKey(explicit string, secrets SecretResolver) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if secrets == nil {
		return "", false
	}
	for _, name := range []string{SecretAPIKey, SecretAPIKeyLegacy} {
		if v, ok := secrets.Secret(name); ok {
			return v, true
		}
	}
	return "", false
}
