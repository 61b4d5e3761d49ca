package controllers

import (
	"germanlearn/backend/ai"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxAudioBytes = 10 << 20

type AIController struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Translator *ai.Translator
	Sentences  *ai.SentenceGenerator
	Log        *utils.Logger
}

func NewAIController(db *gorm.DB, cfg *config.Config, translator *ai.Translator, sentences *ai.SentenceGenerator, log *utils.Logger) *AIController {
	return &AIController{
		DB:         db,
		Cfg:        cfg,
		Translator: translator,
		Sentences:  sentences,
		Log:        log.With("controller", "ai"),
	}
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type GenerateSentencesRequest struct {
	Word  string `json:"word"`
	Level string `json:"level"`
	Count *int   `json:"count"`
}

type TextToSpeechRequest struct {
	Text  string   `json:"text"`
	Speed *float64 `json:"speed"`
}

type PronunciationRequest struct {
	ExpectedText string `json:"expected_text" form:"expected_text"`
	SpokenText   string `json:"spoken_text" form:"spoken_text"`
}

// Translate godoc
// @Summary Translate text
// @Description Translation with grammar explanation and word breakdown. A model failure is reported inside the payload.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body TranslateRequest true "Text and languages (de, en, ar)"
// @Success 200 {object} ai.TranslationResult
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/translate [post]
func (ac *AIController) Translate(c *fiber.Ctx) error {
	var req TranslateRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if strings.TrimSpace(req.Text) == "" {
		return utils.BadRequest(c, "Text is required")
	}
	if req.SourceLang == "" {
		req.SourceLang = "de"
	}
	if req.TargetLang == "" {
		req.TargetLang = "en"
	}

	result := ac.Translator.Translate(c.UserContext(), req.Text, req.SourceLang, req.TargetLang)
	return c.JSON(result)
}

// GenerateSentences godoc
// @Summary Example sentences for a word
// @Description Level defaults to the caller's level, count to 3
// @Tags ai
// @Accept json
// @Produce json
// @Param request body GenerateSentencesRequest true "Word"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/generate-sentences [post]
func (ac *AIController) GenerateSentences(c *fiber.Ctx) error {
	user, err := currentUser(c, ac.DB)
	if err != nil {
		return err
	}

	var req GenerateSentencesRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if strings.TrimSpace(req.Word) == "" {
		return utils.BadRequest(c, "Word is required")
	}

	level := user.Level
	if req.Level != "" {
		parsed, ok := models.ParseLevel(req.Level)
		if !ok {
			return utils.ValidationError(c, map[string]string{"level": "Unknown level."})
		}
		level = parsed
	}

	count := ai.DefaultSentenceCount
	if req.Count != nil {
		count = *req.Count
		if count < 1 || count > ai.MaxSentenceCount {
			return utils.ValidationError(c, map[string]string{"count": "Must be between 1 and 10."})
		}
	}

	sentences := ac.Sentences.Generate(c.UserContext(), strings.TrimSpace(req.Word), level, count)
	return c.JSON(fiber.Map{"sentences": sentences})
}

// SpeechToText godoc
// @Summary Transcribe audio
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file"
// @Success 200 {object} ai.TranscriptionResult
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/speech-to-text [post]
func (ac *AIController) SpeechToText(c *fiber.Ctx) error {
	audio, err := readAudio(c)
	if err != nil {
		return err
	}
	if audio == nil {
		return utils.BadRequest(c, "Audio file is required")
	}
	return c.JSON(ai.SpeechToText(audio))
}

// TextToSpeech godoc
// @Summary Synthesize speech
// @Tags ai
// @Accept json
// @Produce audio/mpeg
// @Param request body TextToSpeechRequest true "Text and speed (0.5 to 2.0)"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/text-to-speech [post]
func (ac *AIController) TextToSpeech(c *fiber.Ctx) error {
	var req TextToSpeechRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	if strings.TrimSpace(req.Text) == "" {
		return utils.BadRequest(c, "Text is required")
	}
	speed := 1.0
	if req.Speed != nil {
		speed = *req.Speed
		if speed < 0.5 || speed > 2.0 {
			return utils.ValidationError(c, map[string]string{"speed": "Must be between 0.5 and 2.0."})
		}
	}

	audio := ai.TextToSpeech(req.Text, speed)
	if len(audio) == 0 {
		return utils.InternalServerError(c, "Failed to generate speech")
	}
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}

// CheckPronunciation godoc
// @Summary Score pronunciation
// @Description Compares expected_text against a transcription of audio, or against spoken_text when given
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param expected_text formData string true "Target sentence"
// @Param spoken_text formData string false "Already transcribed attempt"
// @Param audio formData file false "Recorded attempt"
// @Success 200 {object} ai.PronunciationResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/pronunciation [post]
func (ac *AIController) CheckPronunciation(c *fiber.Ctx) error {
	var req PronunciationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ValidationError(c, map[string]string{"body": "Cannot parse request"})
		}
	}

	audio, err := readAudio(c)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.ExpectedText) == "" || (audio == nil && strings.TrimSpace(req.SpokenText) == "") {
		return utils.BadRequest(c, "Expected text and audio file are required")
	}

	spoken := req.SpokenText
	if strings.TrimSpace(spoken) == "" {
		transcription := ai.SpeechToText(audio)
		if !transcription.Success {
			ac.Log.Warn("transcription failed", "error", transcription.Error)
			return utils.InternalServerError(c, "Failed to transcribe audio")
		}
		spoken = transcription.Text
	}

	return c.JSON(ai.CheckPronunciation(req.ExpectedText, spoken))
}

// readAudio returns the uploaded "audio" file, or nil when the request
// carries none.
func readAudio(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot read audio upload")
	}
	files := form.File["audio"]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	if header.Size > maxAudioBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Audio file too large")
	}
	return readFileHeader(header)
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
