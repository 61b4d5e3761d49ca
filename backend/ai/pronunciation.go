package ai

import (
	"math"
	"strings"
)

type PronunciationResult struct {
	Accuracy     float64 `json:"accuracy"`
	Feedback     string  `json:"feedback"`
	Expected     string  `json:"expected"`
	Spoken       string  `json:"spoken"`
	CorrectWords int     `json:"correct_words"`
	TotalWords   int     `json:"total_words"`
}

// CheckPronunciation compares the two texts word by word at equal
// positions after lowercasing and splitting on whitespace. Accuracy is
// correct / max(len) * 100, rounded to two decimals, and 0 when both are
// empty.
func CheckPronunciation(expectedText, spokenText string) PronunciationResult {
	expected := strings.Fields(strings.ToLower(expectedText))
	spoken := strings.Fields(strings.ToLower(spokenText))

	correct := 0
	for i := 0; i < len(expected) && i < len(spoken); i++ {
		if expected[i] == spoken[i] {
			correct++
		}
	}
	total := max(len(expected), len(spoken))

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	return PronunciationResult{
		Accuracy:     math.Round(accuracy*100) / 100,
		Feedback:     pronunciationFeedback(accuracy),
		Expected:     expectedText,
		Spoken:       spokenText,
		CorrectWords: correct,
		TotalWords:   total,
	}
}

func pronunciationFeedback(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "Excellent!"
	case accuracy >= 70:
		return "Good job!"
	case accuracy >= 50:
		return "Keep practicing!"
	default:
		return "Try again!"
	}
}
