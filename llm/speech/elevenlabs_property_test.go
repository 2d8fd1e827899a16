package speech

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProperty_NoSpeedMeansNoModelID(t *testing.T) {
	c := newTestTransformer(nil)

	rapid.Check(t, func(rt *rapid.T) {
		model := rapid.StringMatching(`[a-z0-9_]{0,24}`).Draw(rt, "model")
		input := rapid.String().Draw(rt, "input")
		voice := rapid.StringMatching(`[A-Za-z0-9]{0,20}`).Draw(rt, "voice")

		optional := map[string]any{}
		if rapid.Bool().Draw(rt, "with_format") {
			optional["response_format"] = rapid.SampledFrom([]string{"mp3", "opus", "wav", ""}).Draw(rt, "format")
		}
		if rapid.Bool().Draw(rt, "with_voice") {
			optional["voice"] = voice
		}

		body := c.TransformRequest(model, input, voice, optional, nil)

		assert.NotContains(rt, body, "model_id")
		assert.NotContains(rt, body, "speed")
		assert.Equal(rt, input, body["text"])
		assert.Equal(rt, voice, body["voice_id"])
	})
}

func TestProperty_TransformRequestIsPure(t *testing.T) {
	c := newTestTransformer(nil)

	rapid.Check(t, func(rt *rapid.T) {
		model := rapid.StringMatching(`[a-z0-9_]{1,24}`).Draw(rt, "model")
		input := rapid.String().Draw(rt, "input")
		voice := rapid.String().Draw(rt, "voice")

		optional := map[string]any{}
		if rapid.Bool().Draw(rt, "with_speed") {
			optional["speed"] = rapid.Float64Range(0.25, 4).Draw(rt, "speed")
		}
		if rapid.Bool().Draw(rt, "with_format") {
			optional["response_format"] = rapid.String().Draw(rt, "format")
		}

		first := c.TransformRequest(model, input, voice, optional, nil)
		second := c.TransformRequest(model, input, voice, optional, nil)
		require.Equal(rt, first, second)

		// 修改返回值不影响下一次结果
		first["text"] = "mutated"
		third := c.TransformRequest(model, input, voice, optional, nil)
		assert.Equal(rt, second, third)
	})
}

func TestProperty_OpenAIFormatsMapToMP3(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	c := newTestTransformer(nil)

	properties.Property("supported response formats always map to mp3", prop.ForAll(
		func(format, input string, withSpeed bool) bool {
			optional := map[string]any{"response_format": format}
			if withSpeed {
				optional["speed"] = 1.1
			}
			body := c.TransformRequest("eleven_multilingual_v2", input, "Rachel", optional, nil)
			return body["output_format"] == "mp3"
		},
		gen.OneConstOf("mp3", "opus", "aac", "flac"),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("any format string yields mp3", prop.ForAll(
		func(format string) bool {
			body := c.TransformRequest("m", "x", "v", map[string]any{"response_format": format}, nil)
			return body["output_format"] == "mp3"
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
