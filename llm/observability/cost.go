package observability

import (
	"strings"
	"sync"
)

// BytesPerAudioSecond 128 kbps MP3 每秒字节数，用于由音频大小估算时长
const BytesPerAudioSecond = 16 * 1024

// wildcardModel 供应商级兜底价格的 model 占位
const wildcardModel = "*"

// CostCalculator 成本计算器
type CostCalculator struct {
	mu     sync.RWMutex
	prices map[string]*SpeechPrice // key: provider:model
}

// SpeechPrice 语音模型价格
type SpeechPrice struct {
	Provider         string  `json:"provider" yaml:"provider"`
	Model            string  `json:"model" yaml:"model"`
	CostPerSecond    float64 `json:"cost_per_second" yaml:"cost_per_second"`       // USD per audio second
	CostPerCharacter float64 `json:"cost_per_character" yaml:"cost_per_character"` // USD per input character
}

// SpeechCost 单次合成的计费结果
type SpeechCost struct {
	AudioDurationSeconds float64
	CostPerSecond        float64
	ResponseCost         float64
}

// NewCostCalculator 创建成本计算器
func NewCostCalculator() *CostCalculator {
	c := &CostCalculator{
		prices: make(map[string]*SpeechPrice),
	}
	c.loadDefaultPrices()
	return c
}

// loadDefaultPrices 加载默认价格（可从配置覆盖）
func (c *CostCalculator) loadDefaultPrices() {
	defaults := []SpeechPrice{
		// ElevenLabs
		{Provider: "elevenlabs", Model: "eleven_multilingual_v2", CostPerSecond: 0.00045},
		{Provider: "elevenlabs", Model: "eleven_monolingual_v1", CostPerSecond: 0.00045},
		{Provider: "elevenlabs", Model: "eleven_turbo_v2_5", CostPerSecond: 0.00045},
		{Provider: "elevenlabs", Model: "eleven_flash_v2_5", CostPerSecond: 0.00045},
		{Provider: "elevenlabs", Model: wildcardModel, CostPerSecond: 0.00045},
	}

	for _, p := range defaults {
		c.SetPrice(p.Provider, p.Model, p.CostPerSecond, p.CostPerCharacter)
	}
}

// SetPrice 设置模型价格
func (c *CostCalculator) SetPrice(provider, model string, costPerSecond, costPerCharacter float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices[priceKey(provider, model)] = &SpeechPrice{
		Provider:         provider,
		Model:            model,
		CostPerSecond:    costPerSecond,
		CostPerCharacter: costPerCharacter,
	}
}

// SetProviderRate 将供应商下所有已知模型（含 "*"）的每秒价格统一改为 costPerSecond，
// 按字符计费部分保持不变。
func (c *CostCalculator) SetProviderRate(provider string, costPerSecond float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.prices[priceKey(provider, wildcardModel)]; !ok {
		c.prices[priceKey(provider, wildcardModel)] = &SpeechPrice{Provider: provider, Model: wildcardModel}
	}
	for key, p := range c.prices {
		if p.Provider != provider {
			continue
		}
		updated := *p
		updated.CostPerSecond = costPerSecond
		c.prices[key] = &updated
	}
}

// GetPrice 获取模型价格，未命中时回退到供应商级价格
func (c *CostCalculator) GetPrice(provider, model string) *SpeechPrice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.prices[priceKey(provider, model)]; ok {
		return p
	}
	return c.prices[priceKey(provider, wildcardModel)]
}

// Calculate 计算成本
func (c *CostCalculator) Calculate(provider, model string, audioBytes, characters int) SpeechCost {
	duration := EstimateAudioDuration(audioBytes)
	price := c.GetPrice(provider, model)
	if price == nil {
		return SpeechCost{AudioDurationSeconds: duration}
	}

	return SpeechCost{
		AudioDurationSeconds: duration,
		CostPerSecond:        price.CostPerSecond,
		ResponseCost:         duration*price.CostPerSecond + float64(characters)*price.CostPerCharacter,
	}
}

// UpdatePrices 批量更新价格（从配置）
func (c *CostCalculator) UpdatePrices(prices []SpeechPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range prices {
		c.prices[priceKey(p.Provider, p.Model)] = &SpeechPrice{
			Provider:         p.Provider,
			Model:            p.Model,
			CostPerSecond:    p.CostPerSecond,
			CostPerCharacter: p.CostPerCharacter,
		}
	}
}

// EstimateAudioDuration 按 128 kbps 估算音频秒数
func EstimateAudioDuration(audioBytes int) float64 {
	if audioBytes <= 0 {
		return 0
	}
	return float64(audioBytes) / BytesPerAudioSecond
}

func priceKey(provider, model string) string {
	// "elevenlabs/eleven_multilingual_v2" 与 "eleven_multilingual_v2" 视为同一模型
	model = strings.TrimPrefix(model, provider+"/")
	return provider + ":" + model
}

// CostSummary 成本汇总
type CostSummary struct {
	TotalCost             float64 `json:"total_cost"`
	TotalCharacters       int     `json:"total_characters"`
	TotalAudioSeconds     float64 `json:"total_audio_seconds"`
	RequestCount          int     `json:"request_count"`
	AvgCostPerReq         float64 `json:"avg_cost_per_request"`
	AvgCharactersPerReq   float64 `json:"avg_characters_per_request"`
	AvgAudioSecondsPerReq float64 `json:"avg_audio_seconds_per_request"`
}

// CostTracker 成本追踪器（进程级累计，供 /v1/usage 查询）
type CostTracker struct {
	mu      sync.Mutex
	summary CostSummary
}

// NewCostTracker 创建成本追踪器
func NewCostTracker() *CostTracker {
	return &CostTracker{}
}

// Track 累计一次合成的成本
func (t *CostTracker) Track(cost SpeechCost, characters int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.summary.TotalCost += cost.ResponseCost
	t.summary.TotalCharacters += characters
	t.summary.TotalAudioSeconds += cost.AudioDurationSeconds
	t.summary.RequestCount++

	n := float64(t.summary.RequestCount)
	t.summary.AvgCostPerReq = t.summary.TotalCost / n
	t.summary.AvgCharactersPerReq = float64(t.summary.TotalCharacters) / n
	t.summary.AvgAudioSecondsPerReq = t.summary.TotalAudioSeconds / n

	return t.summary.TotalCost
}

// Summary 获取成本汇总
func (t *CostTracker) Summary() CostSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// Reset 重置统计
func (t *CostTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary = CostSummary{}
}
