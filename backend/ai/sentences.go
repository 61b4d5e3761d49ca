package ai

import (
	"context"
	"fmt"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
)

const (
	DefaultSentenceCount = 3
	MaxSentenceCount     = 10
)

// ExampleSentence is one generated usage example. The wire names follow
// the German/English pairing the clients expect.
type ExampleSentence struct {
	SourceSentence string `json:"german"`
	Translation    string `json:"english"`
	Context        string `json:"context"`
}

type SentenceGenerator struct {
	oracle Oracle
	log    *utils.Logger
}

func NewSentenceGenerator(oracle Oracle, log *utils.Logger) *SentenceGenerator {
	return &SentenceGenerator{oracle: oracle, log: log.With("service", "SentenceGenerator")}
}

func sentencePrompt(word string, level models.Level, count int) string {
	return fmt.Sprintf(`Generate %d example sentences using the German word "%s" suitable for %s level learners.
Include one real-life practical example.

Format as JSON:
{
    "sentences": [
        {"german": "...", "english": "...", "context": "..."}
    ]
}`, count, word, level)
}

// Generate returns count sentences, or a single entry carrying the error
// text when the model fails or answers with something unparseable.
func (g *SentenceGenerator) Generate(ctx context.Context, word string, level models.Level, count int) []ExampleSentence {
	if count <= 0 {
		count = DefaultSentenceCount
	}

	raw, err := g.oracle.Complete(ctx, sentencePrompt(word, level, count))
	if err != nil {
		g.log.Warn("sentence generation failed", "word", word, "error", err)
		return failedSentences(err)
	}

	var payload struct {
		Sentences []ExampleSentence `json:"sentences"`
	}
	if err := decodeModelJSON(raw, &payload); err != nil {
		g.log.Warn("sentence reply is not valid JSON", "word", word, "error", err)
		return failedSentences(err)
	}
	if payload.Sentences == nil {
		return []ExampleSentence{}
	}
	return payload.Sentences
}

func failedSentences(err error) []ExampleSentence {
	return []ExampleSentence{{SourceSentence: "Error: " + err.Error()}}
}
