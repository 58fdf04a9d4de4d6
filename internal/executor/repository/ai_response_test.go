package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	labels, err := parseClassification("```json\n{\"sentiments\": [\"Negative\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Negative"}, labels)

	_, err = parseClassification(`["Positive"]`)
	assert.Error(t, err)

	_, err = parseClassification(`{"labels": ["Positive"]}`)
	assert.Error(t, err)
}

func TestParseSummary(t *testing.T) {
	res, err := parseSummary(`{"summary": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Summary)
	assert.NotNil(t, res.Keywords)

	_, err = parseSummary("not json")
	assert.Error(t, err)
}

func TestBuildClassifySentimentPrompt(t *testing.T) {
	p := BuildClassifySentimentPrompt([]string{"a", "b", "c"})
	assert.Contains(t, p, "Return exactly 3 labels")
	assert.Contains(t, p, `["a","b","c"]`)
}
