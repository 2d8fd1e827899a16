package observability

import (
	"math"
	"testing"
)

func TestCostCalculator_Calculate(t *testing.T) {
	calc := NewCostCalculator()

	tests := []struct {
		name       string
		provider   string
		model      string
		audioBytes int
		characters int
		wantSecs   float64
		wantCost   float64
	}{
		{
			name:       "multilingual v2, 160 KiB",
			provider:   "elevenlabs",
			model:      "eleven_multilingual_v2",
			audioBytes: 160 * 1024,
			wantSecs:   10,
			wantCost:   10 * 0.00045,
		},
		{
			name:       "prefixed model name",
			provider:   "elevenlabs",
			model:      "elevenlabs/eleven_multilingual_v2",
			audioBytes: 32 * 1024,
			wantSecs:   2,
			wantCost:   2 * 0.00045,
		},
		{
			name:       "unknown elevenlabs model falls back to provider price",
			provider:   "elevenlabs",
			model:      "eleven_v3_alpha",
			audioBytes: 16 * 1024,
			wantSecs:   1,
			wantCost:   0.00045,
		},
		{
			name:       "unknown provider",
			provider:   "unknown",
			model:      "unknown",
			audioBytes: 16 * 1024,
			wantSecs:   1,
			wantCost:   0,
		},
		{
			name:     "empty audio",
			provider: "elevenlabs",
			model:    "eleven_multilingual_v2",
			wantSecs: 0,
			wantCost: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(tt.provider, tt.model, tt.audioBytes, tt.characters)
			if math.Abs(got.AudioDurationSeconds-tt.wantSecs) > 1e-9 {
				t.Errorf("AudioDurationSeconds = %v, want %v", got.AudioDurationSeconds, tt.wantSecs)
			}
			if math.Abs(got.ResponseCost-tt.wantCost) > 1e-12 {
				t.Errorf("ResponseCost = %v, want %v", got.ResponseCost, tt.wantCost)
			}
		})
	}
}

func TestCostCalculator_PerCharacterPricing(t *testing.T) {
	calc := NewCostCalculator()
	calc.UpdatePrices([]SpeechPrice{
		{Provider: "elevenlabs", Model: "eleven_turbo_v2_5", CostPerCharacter: 0.0001},
	})

	got := calc.Calculate("elevenlabs", "eleven_turbo_v2_5", 0, 50)
	if math.Abs(got.ResponseCost-0.005) > 1e-12 {
		t.Errorf("ResponseCost = %v, want 0.005", got.ResponseCost)
	}
	if got.CostPerSecond != 0 {
		t.Errorf("CostPerSecond = %v, want 0", got.CostPerSecond)
	}
}

func TestCostCalculator_GetPrice(t *testing.T) {
	calc := NewCostCalculator()

	price := calc.GetPrice("elevenlabs", "eleven_multilingual_v2")
	if price == nil {
		t.Fatal("expected default price for eleven_multilingual_v2")
	}
	if price.CostPerSecond != 0.00045 {
		t.Errorf("CostPerSecond = %v, want 0.00045", price.CostPerSecond)
	}

	calc.SetPrice("elevenlabs", "eleven_multilingual_v2", 0.001, 0)
	if got := calc.GetPrice("elevenlabs", "eleven_multilingual_v2").CostPerSecond; got != 0.001 {
		t.Errorf("after SetPrice CostPerSecond = %v, want 0.001", got)
	}

	if calc.GetPrice("openai", "tts-1") != nil {
		t.Error("expected nil price for unpriced provider")
	}
}

func TestCostCalculator_SetProviderRate(t *testing.T) {
	calc := NewCostCalculator()
	calc.UpdatePrices([]SpeechPrice{
		{Provider: "elevenlabs", Model: "eleven_turbo_v2_5", CostPerSecond: 0.0002, CostPerCharacter: 0.00001},
	})
	calc.SetProviderRate("elevenlabs", 0.001)

	for _, model := range []string{"eleven_multilingual_v2", "eleven_flash_v2_5", "eleven_turbo_v2_5", "unlisted"} {
		if got := calc.GetPrice("elevenlabs", model).CostPerSecond; got != 0.001 {
			t.Errorf("%s CostPerSecond = %v, want 0.001", model, got)
		}
	}
	if got := calc.GetPrice("elevenlabs", "eleven_turbo_v2_5").CostPerCharacter; got != 0.00001 {
		t.Errorf("CostPerCharacter = %v, want 0.00001", got)
	}

	// 未定价的供应商获得 "*" 价格
	calc.SetProviderRate("acme", 0.002)
	if p := calc.GetPrice("acme", "any"); p == nil || p.CostPerSecond != 0.002 {
		t.Errorf("acme price = %+v, want 0.002/s", p)
	}
}

func TestCostTracker_Track(t *testing.T) {
	calc := NewCostCalculator()
	tracker := NewCostTracker()

	// 追踪多次请求
	tracker.Track(calc.Calculate("elevenlabs", "eleven_multilingual_v2", 160*1024, 100), 100)
	tracker.Track(calc.Calculate("elevenlabs", "eleven_multilingual_v2", 32*1024, 20), 20)

	summary := tracker.Summary()

	if summary.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", summary.RequestCount)
	}
	if summary.TotalCharacters != 120 {
		t.Errorf("TotalCharacters = %d, want 120", summary.TotalCharacters)
	}
	if math.Abs(summary.TotalAudioSeconds-12) > 1e-9 {
		t.Errorf("TotalAudioSeconds = %v, want 12", summary.TotalAudioSeconds)
	}
	if math.Abs(summary.TotalCost-12*0.00045) > 1e-12 {
		t.Errorf("TotalCost = %v, want %v", summary.TotalCost, 12*0.00045)
	}
	if math.Abs(summary.AvgCharactersPerReq-60) > 1e-9 {
		t.Errorf("AvgCharactersPerReq = %v, want 60", summary.AvgCharactersPerReq)
	}

	tracker.Reset()
	if tracker.Summary().RequestCount != 0 {
		t.Error("Reset() should clear summary")
	}
}
