package config

import (
	"github.com/BaSui01/voicebridge/llm/observability"
	"github.com/BaSui01/voicebridge/llm/speech"
)

// =============================================================================
// 🔊 Speech 组件装配
// =============================================================================

// SpeechConfig 转换为 speech 包的 ElevenLabs 配置
func (c *ElevenLabsConfig) SpeechConfig() speech.ElevenLabsConfig {
	return speech.ElevenLabsConfig{
		BaseURL: c.BaseURL,
		Model:   c.DefaultModel,
		VoiceID: c.DefaultVoiceID,
		Timeout: c.Timeout,
	}
}

// Secrets 返回凭据解析链：配置文件中的 api_key 优先，其次是进程环境变量。
func (c *ElevenLabsConfig) Secrets() speech.SecretResolver {
	static := speech.StaticSecrets{}
	if c.APIKey != "" {
		static[speech.SecretAPIKey] = c.APIKey
	}
	return speech.ChainSecrets{speech.LabeledSecrets{Label: "config", SecretResolver: static}, speech.EnvSecrets{}}
}

// CostCalculator 基于内置价格表构建计费器：先用默认每秒价格覆盖全部 ElevenLabs 模型，
// 再应用 Models 中的逐模型价格
func (p *PricingConfig) CostCalculator() *observability.CostCalculator {
	calc := observability.NewCostCalculator()
	if p.DefaultCostPerSecond > 0 {
		calc.SetProviderRate(speech.ProviderName, p.DefaultCostPerSecond)
	}

	prices := make([]observability.SpeechPrice, 0, len(p.Models))
	for _, m := range p.Models {
		prices = append(prices, observability.SpeechPrice{
			Provider:         speech.ProviderName,
			Model:            speech.NormalizeModel(m.Model, "*"),
			CostPerSecond:    m.CostPerSecond,
			CostPerCharacter: m.CostPerCharacter,
		})
	}
	calc.UpdatePrices(prices)
	return calc
}
