package ai

import (
	"context"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSentences(t *testing.T) {
	oracle := NewMockOracle(MockResponse{Text: `{"sentences":[
		{"german":"Ich trinke Wasser.","english":"I drink water.","context":"At a restaurant"},
		{"german":"Das Wasser ist kalt.","english":"The water is cold.","context":"Describing"}
	]}`})
	gen := NewSentenceGenerator(oracle, utils.NopLogger())

	got := gen.Generate(context.Background(), "Wasser", models.LevelA2, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "Ich trinke Wasser.", got[0].SourceSentence)
	assert.Equal(t, "I drink water.", got[0].Translation)
	assert.Contains(t, oracle.LastPrompt(), `Generate 2 example sentences using the German word "Wasser" suitable for A2 level learners.`)
}

func TestGenerateSentencesDefaultCount(t *testing.T) {
	oracle := NewMockOracle(MockResponse{Text: `{"sentences":[]}`})
	gen := NewSentenceGenerator(oracle, utils.NopLogger())

	got := gen.Generate(context.Background(), "Haus", models.LevelA1, 0)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, oracle.LastPrompt(), "Generate 3 example sentences")
}

func TestGenerateSentencesDegrades(t *testing.T) {
	gen := NewSentenceGenerator(NewMockOracle(), utils.NopLogger())

	got := gen.Generate(context.Background(), "Haus", models.LevelB1, 3)

	require.Len(t, got, 1)
	assert.Contains(t, got[0].SourceSentence, "Error: ")
	assert.Empty(t, got[0].Translation)
	assert.Empty(t, got[0].Context)
}
