// =============================================================================
// 📦 VoiceBridge 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:     DefaultServerConfig(),
		ElevenLabs: DefaultElevenLabsConfig(),
		Pricing:    DefaultPricingConfig(),
		Log:        DefaultLogConfig(),
		Telemetry:  DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    90 * time.Second, // 长文本合成可能超过 30s
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    20,
		RateLimitBurst:  40,
	}
}

// DefaultElevenLabsConfig 返回默认 ElevenLabs 配置
func DefaultElevenLabsConfig() ElevenLabsConfig {
	return ElevenLabsConfig{
		BaseURL:        "https://api.elevenlabs.io/v1",
		DefaultVoiceID: "21m00Tcm4TlvDq8ikWAM",
		DefaultModel:   "eleven_multilingual_v2",
		Timeout:        60 * time.Second,
		MaxIdleConns:   32,
	}
}

// DefaultPricingConfig 返回默认计费配置
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DefaultCostPerSecond: 0.00045,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "voicebridge",
		SampleRate:   0.1,
	}
}
