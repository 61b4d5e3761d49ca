package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPronunciation(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		spoken   string
		accuracy float64
		correct  int
		total    int
		feedback string
	}{
		{"exact match", "Guten Morgen", "guten morgen", 100, 2, 2, "Excellent!"},
		{"one of three", "ich bin müde", "ich war froh", 33.33, 1, 3, "Try again!"},
		{"spoken longer", "hallo", "hallo du da", 33.33, 1, 3, "Try again!"},
		{"positional only", "eins zwei", "zwei eins", 0, 0, 2, "Try again!"},
		{"nothing spoken", "ich bin hier", "", 0, 0, 3, "Try again!"},
		{"both empty", "", "   ", 0, 0, 0, "Try again!"},
		{"three of four", "das ist ein Haus", "das ist ein Maus", 75, 3, 4, "Good job!"},
		{"half", "ich heiße Anna", "ich heiße", 66.67, 2, 3, "Keep practicing!"},
		{"extra whitespace", "  wie   geht's ", "wie geht's", 100, 2, 2, "Excellent!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPronunciation(tt.expected, tt.spoken)
			assert.InDelta(t, tt.accuracy, got.Accuracy, 0.001)
			assert.Equal(t, tt.correct, got.CorrectWords)
			assert.Equal(t, tt.total, got.TotalWords)
			assert.Equal(t, tt.feedback, got.Feedback)
			assert.Equal(t, tt.expected, got.Expected)
			assert.Equal(t, tt.spoken, got.Spoken)
		})
	}
}

func TestPronunciationFeedbackBoundaries(t *testing.T) {
	assert.Equal(t, "Excellent!", pronunciationFeedback(90))
	assert.Equal(t, "Good job!", pronunciationFeedback(89.99))
	assert.Equal(t, "Good job!", pronunciationFeedback(70))
	assert.Equal(t, "Keep practicing!", pronunciationFeedback(50))
	assert.Equal(t, "Try again!", pronunciationFeedback(49.99))
}

func TestSpeechStubs(t *testing.T) {
	res := SpeechToText([]byte("RIFF"))
	assert.False(t, res.Success)
	assert.Empty(t, res.Text)
	assert.Contains(t, res.Error, "not yet implemented")

	assert.Empty(t, TextToSpeech("Hallo", 1.0))
}
