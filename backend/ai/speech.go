package ai

// Speech recognition and synthesis are not backed by any provider yet.
// Both calls keep the response contract the clients rely on.

const speechToTextUnavailable = "Speech-to-text is not yet implemented. Please use Google Cloud Speech-to-Text API for this feature."

type TranscriptionResult struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func SpeechToText(audio []byte) TranscriptionResult {
	return TranscriptionResult{Text: "", Success: false, Error: speechToTextUnavailable}
}

// TextToSpeech returns no audio; callers treat an empty slice as failure.
func TextToSpeech(text string, speed float64) []byte {
	return nil
}
