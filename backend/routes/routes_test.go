package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"germanlearn/backend/ai"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		DBDriver:            "sqlite",
		DBName:              "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		JWTSecret:           "routes-test-secret",
		JWTAccessTTL:        time.Hour,
		JWTRefreshTTL:       24 * time.Hour,
		CORSAllowOrigin:     "*",
		TranslationCacheTTL: time.Hour,
	}
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, utils.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := NewServices(db, cfg, ai.Unavailable(errors.New("no provider configured")), nil, utils.NopLogger())
	return &testServer{app: NewApp(db, cfg, svc), db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, interface{}) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func obj(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "expected JSON object, got %T", v)
	return m
}

func list(t *testing.T, v interface{}) []interface{} {
	t.Helper()
	l, ok := v.([]interface{})
	require.True(t, ok, "expected JSON array, got %T", v)
	return l
}

// upload posts a multipart form with the given fields and an optional audio file.
func (s *testServer) upload(t *testing.T, path, token string, fields map[string]string, audio []byte) (int, interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if audio != nil {
		part, err := w.CreateFormFile("audio", "aufnahme.wav")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return s.send(t, req)
}

// register creates an account and returns its access token.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "sicher123",
		"password_confirm": "sicher123",
		"language_level":   "A2",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	tokens := obj(t, obj(t, body)["tokens"])
	return tokens["access"].(string)
}

type contentFixture struct {
	Course   models.Course
	Module   models.Module
	Lesson   models.Lesson
	Exercise models.Exercise
}

func (s *testServer) seedContent(t *testing.T) contentFixture {
	t.Helper()
	course := models.Course{Title: "Deutsch für Anfänger", Level: models.LevelA1, IsPublished: true}
	require.NoError(t, s.db.Create(&course).Error)
	hidden := models.Course{Title: "Entwurf", Level: models.LevelB2, IsPublished: false}
	require.NoError(t, s.db.Create(&hidden).Error)

	module := models.Module{CourseID: course.ID, Title: "Begrüßungen", Order: 1}
	require.NoError(t, s.db.Create(&module).Error)
	lesson := models.Lesson{ModuleID: module.ID, Title: "Hallo und Tschüss", LessonType: models.LessonVocabulary, IsPublished: true, Order: 1}
	require.NoError(t, s.db.Create(&lesson).Error)
	require.NoError(t, s.db.Create(&models.Vocabulary{LessonID: lesson.ID, Word: "Hallo", Translation: "Hello"}).Error)
	exercise := models.Exercise{
		LessonID:      lesson.ID,
		ExerciseType:  models.ExerciseTranslation,
		Question:      "Translate: Goodbye",
		CorrectAnswer: "Tschüss",
	}
	require.NoError(t, s.db.Create(&exercise).Error)
	return contentFixture{Course: course, Module: module, Lesson: lesson, Exercise: exercise}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, fiber.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", obj(t, body)["status"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "anna",
		"email":            "Anna@Example.com",
		"password":         "sicher123",
		"password_confirm": "sicher123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	user := obj(t, obj(t, body)["user"])
	assert.Equal(t, "anna@example.com", user["email"])
	assert.Equal(t, "A1", user["language_level"])
	assert.NotContains(t, user, "password")

	status, body = s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "anna",
		"email":            "anna@example.com",
		"password":         "sicher123",
		"password_confirm": "sicher123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	details := obj(t, obj(t, body)["details"])
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "username")

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "falsch",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "sicher123",
	})
	require.Equal(t, fiber.StatusOK, status)
	tokens := obj(t, obj(t, body)["tokens"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/token/refresh", "", map[string]string{
		"refresh": tokens["refresh"].(string),
	})
	require.Equal(t, fiber.StatusOK, status)
	access := obj(t, body)["access"].(string)

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/token/refresh", "", map[string]string{
		"refresh": access,
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = s.do(t, fiber.MethodGet, "/api/auth/profile", access, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anna", obj(t, body)["username"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "an",
		"email":            "not-an-email",
		"password":         "kurz",
		"password_confirm": "anders",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	details := obj(t, obj(t, body)["details"])
	for _, field := range []string{"username", "email", "password", "password_confirm"} {
		assert.Contains(t, details, field)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/auth/profile", "/api/lessons", "/api/progress", "/api/chat/sessions"} {
		status, _ := s.do(t, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
	status, _ := s.do(t, fiber.MethodGet, "/api/progress/", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPublicCourses(t *testing.T) {
	s := newTestServer(t)
	fx := s.seedContent(t)

	status, body := s.do(t, fiber.MethodGet, "/api/courses/", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	courses := list(t, body)
	require.Len(t, courses, 1)
	assert.Equal(t, "Deutsch für Anfänger", obj(t, courses[0])["title"])
	assert.EqualValues(t, 1, obj(t, courses[0])["total_lessons"])

	status, body = s.do(t, fiber.MethodGet, "/api/courses?level=b2", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, list(t, body))

	status, _ = s.do(t, fiber.MethodGet, "/api/courses?level=Z9", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/courses/%d", fx.Course.ID), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	modules := list(t, obj(t, body)["modules"])
	require.Len(t, modules, 1)
	assert.EqualValues(t, 1, obj(t, modules[0])["lesson_count"])

	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/courses/%d", fx.Course.ID+1), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/courses/modules/%d", fx.Module.ID), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Begrüßungen", obj(t, body)["title"])
}

func TestLessonsAndExercises(t *testing.T) {
	s := newTestServer(t)
	fx := s.seedContent(t)
	token := s.register(t, "jonas")

	status, body := s.do(t, fiber.MethodGet, "/api/lessons?level=A1", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	lessons := list(t, body)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Begrüßungen", obj(t, lessons[0])["module_title"])
	assert.Equal(t, "A1", obj(t, lessons[0])["course_level"])

	status, body = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/lessons/%d", fx.Lesson.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	detail := obj(t, body)
	assert.Len(t, list(t, detail["vocabulary"]), 1)
	exercises := list(t, detail["exercises"])
	require.Len(t, exercises, 1)
	assert.NotContains(t, obj(t, exercises[0]), "correct_answer")

	status, body = s.do(t, fiber.MethodPost, "/api/lessons/exercises/submit", token, map[string]interface{}{
		"exercise_id": fx.Exercise.ID, "user_answer": "Auf Wiedersehen",
	})
	require.Equal(t, fiber.StatusOK, status)
	result := obj(t, body)
	assert.Equal(t, false, result["is_correct"])
	assert.Equal(t, "Tschüss", result["correct_answer"])

	status, body = s.do(t, fiber.MethodPost, "/api/lessons/exercises/submit", token, map[string]interface{}{
		"exercise_id": fx.Exercise.ID, "user_answer": " tschüss ",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, obj(t, body)["is_correct"])
	assert.Nil(t, obj(t, body)["correct_answer"])

	status, _ = s.do(t, fiber.MethodPost, "/api/lessons/exercises/submit", token, map[string]interface{}{
		"exercise_id": fx.Exercise.ID + 100, "user_answer": "x",
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", fx.Lesson.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Lesson completed successfully", obj(t, body)["message"])
	assert.EqualValues(t, 100, obj(t, body)["progress"])

	status, _ = s.do(t, fiber.MethodGet, "/api/lessons/abc", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestProgressEndpoints(t *testing.T) {
	s := newTestServer(t)
	fx := s.seedContent(t)
	owner := s.register(t, "mia")
	other := s.register(t, "max")

	status, body := s.do(t, fiber.MethodPost, "/api/progress/", owner, map[string]interface{}{"lesson_id": fx.Lesson.ID})
	require.Equal(t, fiber.StatusCreated, status)
	item := obj(t, body)
	assert.Equal(t, "Hallo und Tschüss", item["lesson_title"])
	assert.EqualValues(t, 0, item["completion_percentage"])
	progressID := int(item["id"].(float64))

	status, _ = s.do(t, fiber.MethodPost, "/api/progress/", owner, map[string]interface{}{"lesson_id": 9999})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodGet, "/api/progress", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, list(t, body), 1)

	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/progress/%d", progressID), owner, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/progress/%d", progressID), other, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodGet, "/api/progress/streak", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, obj(t, body)["streak_days"])

	status, body = s.do(t, fiber.MethodGet, "/api/progress/achievements", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, list(t, body))

	status, body = s.do(t, fiber.MethodGet, "/api/progress/dashboard", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	dash := obj(t, body)
	assert.EqualValues(t, 1, dash["total_lessons_started"])
	assert.EqualValues(t, 1, dash["current_streak"])
	assert.Equal(t, "A2", dash["language_level"])

	status, body = s.do(t, fiber.MethodGet, "/api/auth/stats", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, obj(t, body)["total_lessons"])
}

func TestChatWithoutProviderDegrades(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "lea")

	status, body := s.do(t, fiber.MethodPost, "/api/chat/send", token, map[string]string{"message": "Hallo!"})
	require.Equal(t, fiber.StatusOK, status)
	resp := obj(t, body)
	reply := obj(t, resp["ai_response"])
	assert.True(t, strings.HasPrefix(reply["content"].(string), "I'm sorry, I encountered an error:"))
	assert.Equal(t, "ASSISTANT", reply["role"])
	sessionID := int(resp["session_id"].(float64))

	status, body = s.do(t, fiber.MethodGet, "/api/chat/sessions", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	sessions := list(t, body)
	require.Len(t, sessions, 1)
	assert.EqualValues(t, 2, obj(t, sessions[0])["message_count"])

	status, _ = s.do(t, fiber.MethodPost, "/api/chat/send", token, map[string]string{"message": "x", "mode": "poetry"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/chat/send", token, map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	stranger := s.register(t, "tom")
	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/chat/sessions/%d", sessionID), stranger, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodDelete, fmt.Sprintf("/api/chat/sessions/%d/clear", sessionID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Chat session cleared successfully", obj(t, body)["message"])

	status, body = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/chat/sessions/%d", sessionID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, list(t, obj(t, body)["messages"]))

	status, _ = s.do(t, fiber.MethodDelete, fmt.Sprintf("/api/chat/sessions/%d", sessionID), token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/chat/sessions/%d", sessionID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChatSessionCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "ida")

	status, body := s.do(t, fiber.MethodPost, "/api/chat/sessions", token, map[string]string{"mode": "grammar"})
	require.Equal(t, fiber.StatusCreated, status)
	created := obj(t, body)
	assert.Equal(t, "GRAMMAR", created["mode"])
	assert.True(t, strings.HasPrefix(created["title"].(string), "Grammar Explanation - "))
	id := int(created["id"].(float64))

	status, body = s.do(t, fiber.MethodPatch, fmt.Sprintf("/api/chat/sessions/%d", id), token, map[string]interface{}{
		"title": "Dativ üben", "is_active": false,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Dativ üben", obj(t, body)["title"])
	assert.Equal(t, false, obj(t, body)["is_active"])

	status, body = s.do(t, fiber.MethodPost, "/api/chat/sessions", token, map[string]interface{}{
		"title": "Später", "is_active": false,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, false, obj(t, body)["is_active"])
	assert.Equal(t, "BEGINNER", obj(t, body)["mode"])

	status, body = s.do(t, fiber.MethodPost, "/api/chat/sessions", token, map[string]string{})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, obj(t, body)["is_active"])
}

func TestAIEndpointsWithoutProvider(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "ole")

	status, body := s.do(t, fiber.MethodPost, "/api/ai/translate", token, map[string]string{"text": "Guten Morgen"})
	require.Equal(t, fiber.StatusOK, status)
	tr := obj(t, body)
	assert.True(t, strings.HasPrefix(tr["translation"].(string), "Error: "))
	assert.Empty(t, list(t, tr["word_breakdown"]))

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/translate", token, map[string]string{"text": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodPost, "/api/ai/generate-sentences", token, map[string]interface{}{"word": "Haus"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, list(t, obj(t, body)["sentences"]), 1)

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/generate-sentences", token, map[string]interface{}{"word": "Haus", "count": 11})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/text-to-speech", token, map[string]interface{}{"text": "Hallo"})
	assert.Equal(t, fiber.StatusInternalServerError, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/text-to-speech", token, map[string]interface{}{"text": "Hallo", "speed": 3.0})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/speech-to-text", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodPost, "/api/ai/pronunciation", token, map[string]string{
		"expected_text": "Ich bin müde", "spoken_text": "ich bin mude",
	})
	require.Equal(t, fiber.StatusOK, status)
	pr := obj(t, body)
	assert.InDelta(t, 66.67, pr["accuracy"], 0.001)
	assert.EqualValues(t, 2, pr["correct_words"])

	status, _ = s.do(t, fiber.MethodPost, "/api/ai/pronunciation", token, map[string]string{"expected_text": "Hallo"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAudioUploads(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "mia")
	clip := []byte("RIFF....WAVEfmt ")

	status, body := s.upload(t, "/api/ai/speech-to-text", token, nil, clip)
	require.Equal(t, fiber.StatusOK, status)
	stt := obj(t, body)
	assert.Equal(t, false, stt["success"])
	assert.Equal(t, "", stt["text"])
	assert.Contains(t, stt["error"], "not yet implemented")

	status, _ = s.upload(t, "/api/ai/speech-to-text", token, map[string]string{"note": "ohne Datei"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.upload(t, "/api/ai/pronunciation", token, map[string]string{"expected_text": "Guten Tag"}, clip)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to transcribe audio", obj(t, body)["error"])

	status, body = s.upload(t, "/api/ai/pronunciation", token, map[string]string{
		"expected_text": "Guten Tag", "spoken_text": "guten tag",
	}, clip)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 100, obj(t, body)["accuracy"])

	status, _ = s.upload(t, "/api/ai/pronunciation", token, map[string]string{"spoken_text": "hallo"}, clip)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAudioUploadTooLarge(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "nils")

	status, _ := s.upload(t, "/api/ai/speech-to-text", token, nil, make([]byte, 11<<20))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
}
