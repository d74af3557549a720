package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONFromFencedBlock(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
}

func TestExtractJSONFromFenceWithoutLanguageTag(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSON("```\n{\"a\":1}\n```"))
}

func TestExtractJSONSkipsFenceWithOtherLanguageTag(t *testing.T) {
	raw := "```python\n{\"score\":50,\"full_report\":\"ok\"}\n```"
	require.Equal(t, `{"score":50,"full_report":"ok"}`, ExtractJSON(raw))
}

func TestExtractJSONFromInlineFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSON("```json{\"a\":1}```"))
}

func TestExtractJSONFromSurroundingProse(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSON(`noise {"a":1} trailing`))
}

func TestExtractJSONSpansOuterBraces(t *testing.T) {
	require.Equal(t, `{"a":{"b":2}}`, ExtractJSON(`Here you go: {"a":{"b":2}} hope that helps`))
}

func TestExtractJSONReturnsTrimmedOriginalWithoutBraces(t *testing.T) {
	require.Equal(t, "not json at all", ExtractJSON("  not json at all \n"))
}

func TestExtractJSONPassesThroughPureJSON(t *testing.T) {
	require.Equal(t, `{"score":50}`, ExtractJSON(`{"score":50}`))
}
