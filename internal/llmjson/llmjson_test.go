package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

func TestExtract(t *testing.T) {
	t.Run("returns fenced json block", func(t *testing.T) {
		text := "Here is the analysis:\n```json\n{\"score\": 80}\n```\nHope that helps!"

		assert.Equal(t, `{"score": 80}`, Extract(text))
	})

	t.Run("returns fenced block without language tag", func(t *testing.T) {
		text := "```\n{\"score\": 80}\n```"

		assert.Equal(t, `{"score": 80}`, Extract(text))
	})

	t.Run("falls back to outermost object bounds", func(t *testing.T) {
		text := "The result is {\"score\": 10, \"tags\": [\"a\"]} as requested."

		assert.Equal(t, `{"score": 10, "tags": ["a"]}`, Extract(text))
	})

	t.Run("handles top-level arrays", func(t *testing.T) {
		text := "[{\"score\": 1}, {\"score\": 2}]"

		assert.Equal(t, text, Extract(text))
	})

	t.Run("prefers object when it opens before an inner array", func(t *testing.T) {
		text := "noise {\"tags\": [\"x\", \"y\"]} trailing"

		assert.Equal(t, `{"tags": ["x", "y"]}`, Extract(text))
	})

	t.Run("returns trimmed text when no json markers exist", func(t *testing.T) {
		assert.Equal(t, "sorry, I could not comply", Extract("  sorry, I could not comply\n"))
	})
}

func TestDecode(t *testing.T) {
	t.Run("decodes fenced payload into target", func(t *testing.T) {
		var s sample
		res := Decode("```json\n{\"score\": 42, \"tags\": [\"go\"]}\n```", &s)

		require.True(t, res.Parsed)
		assert.Equal(t, 42, s.Score)
		assert.Equal(t, []string{"go"}, s.Tags)
	})

	t.Run("decodes bare json without fences", func(t *testing.T) {
		var s sample
		res := Decode(`{"score": 7}`, &s)

		require.True(t, res.Parsed)
		assert.Equal(t, 7, s.Score)
	})

	t.Run("malformed text keeps the raw response", func(t *testing.T) {
		var s sample
		res := Decode("I refuse to answer in JSON.", &s)

		require.True(t, res.Malformed())
		assert.Equal(t, "I refuse to answer in JSON.", res.Raw)
	})

	t.Run("invalid json reports the decode error", func(t *testing.T) {
		var s sample
		res := Decode(`{"score": "not-a-number"}`, &s)

		require.True(t, res.Malformed())
		assert.Error(t, res.Err)
	})

	t.Run("empty response is malformed", func(t *testing.T) {
		var s sample
		res := Decode("", &s)

		assert.True(t, res.Malformed())
	})
}
