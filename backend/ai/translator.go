package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"germanlearn/backend/utils"
	"strings"
	"time"
)

var errEmptyTranslation = errors.New("model returned no translation")

var languageNames = map[string]string{
	"de": "German",
	"en": "English",
	"ar": "Arabic",
}

// WordNote explains one word of the translated text.
type WordNote struct {
	Word        string `json:"word"`
	Meaning     string `json:"meaning"`
	GrammarNote string `json:"grammar_note"`
}

type TranslationResult struct {
	Translation        string     `json:"translation"`
	GrammarExplanation string     `json:"grammar_explanation"`
	WordBreakdown      []WordNote `json:"word_breakdown"`
}

// Degraded reports whether the result carries an error instead of a
// translation.
func (r TranslationResult) Degraded() bool {
	return strings.HasPrefix(r.Translation, "Error: ")
}

type Translator struct {
	oracle   Oracle
	cache    Cache
	cacheTTL time.Duration
	log      *utils.Logger
}

// NewTranslator accepts a nil cache.
func NewTranslator(oracle Oracle, cache Cache, cacheTTL time.Duration, log *utils.Logger) *Translator {
	return &Translator{oracle: oracle, cache: cache, cacheTTL: cacheTTL, log: log.With("service", "Translator")}
}

func languageName(code, fallback string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return fallback
}

func translationPrompt(text, source, target string) string {
	return fmt.Sprintf(`Translate the following %s text to %s and provide:
1. Translation
2. Grammar explanation
3. Word breakdown

Text: %s

Format your response as JSON:
{
    "translation": "...",
    "grammar_explanation": "...",
    "word_breakdown": [
        {"word": "...", "meaning": "...", "grammar_note": "..."}
    ]
}`, languageName(source, "German"), languageName(target, "English"), text)
}

// Translate never returns an error: gateway and parse failures come back
// as a result whose Translation starts with "Error: ".
func (t *Translator) Translate(ctx context.Context, text, source, target string) TranslationResult {
	key := cacheKey("translate", strings.ToLower(source), strings.ToLower(target), text)
	if cached, ok := t.fromCache(ctx, key); ok {
		return cached
	}

	raw, err := t.oracle.Complete(ctx, translationPrompt(text, source, target))
	if err != nil {
		t.log.Warn("translation failed", "error", err)
		return failedTranslation(err)
	}

	var result TranslationResult
	if err := decodeModelJSON(raw, &result); err != nil {
		t.log.Warn("translation reply is not valid JSON", "error", err)
		return failedTranslation(err)
	}
	if strings.TrimSpace(result.Translation) == "" {
		t.log.Warn("translation reply is empty")
		return failedTranslation(errEmptyTranslation)
	}
	if result.WordBreakdown == nil {
		result.WordBreakdown = []WordNote{}
	}

	t.toCache(ctx, key, result)
	return result
}

func failedTranslation(err error) TranslationResult {
	return TranslationResult{
		Translation:        "Error: " + err.Error(),
		GrammarExplanation: "",
		WordBreakdown:      []WordNote{},
	}
}

func (t *Translator) fromCache(ctx context.Context, key string) (TranslationResult, bool) {
	if t.cache == nil {
		return TranslationResult{}, false
	}
	raw, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.log.Warn("translation cache read failed", "error", err)
		return TranslationResult{}, false
	}
	if !ok {
		return TranslationResult{}, false
	}
	var result TranslationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return TranslationResult{}, false
	}
	return result, true
}

func (t *Translator) toCache(ctx context.Context, key string, result TranslationResult) {
	if t.cache == nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, key, string(b), t.cacheTTL); err != nil {
		t.log.Warn("translation cache write failed", "error", err)
	}
}
