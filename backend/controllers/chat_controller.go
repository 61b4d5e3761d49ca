package controllers

import (
	"germanlearn/backend/config"
	"germanlearn/backend/middleware"
	"germanlearn/backend/models"
	"germanlearn/backend/repository"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const lastMessagePreview = 100

type ChatController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Tutor *services.TutorService
}

func NewChatController(db *gorm.DB, cfg *config.Config, tutor *services.TutorService) *ChatController {
	return &ChatController{DB: db, Cfg: cfg, Tutor: tutor}
}

type SendMessageRequest struct {
	SessionID *uint  `json:"session_id"`
	Mode      string `json:"mode"`
	Message   string `json:"message" validate:"required"`
}

type SessionRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Mode     *string `json:"mode"`
	IsActive *bool   `json:"is_active"`
}

type MessageItem struct {
	ID          uint               `json:"id"`
	Role        models.MessageRole `json:"role"`
	Content     string             `json:"content"`
	Corrections datatypes.JSON     `json:"corrections"`
	CreatedAt   time.Time          `json:"created_at"`
}

type LastMessage struct {
	Content   string             `json:"content"`
	Role      models.MessageRole `json:"role"`
	CreatedAt time.Time          `json:"created_at"`
}

type SessionListItem struct {
	ID           uint            `json:"id"`
	Mode         models.ChatMode `json:"mode"`
	Title        string          `json:"title"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	MessageCount int64           `json:"message_count"`
	LastMessage  *LastMessage    `json:"last_message"`
}

type SessionDetail struct {
	ID           uint            `json:"id"`
	Mode         models.ChatMode `json:"mode"`
	Title        string          `json:"title"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Messages     []MessageItem   `json:"messages"`
	MessageCount int             `json:"message_count"`
}

type SendMessageResponse struct {
	SessionID   uint        `json:"session_id"`
	UserMessage MessageItem `json:"user_message"`
	AIResponse  MessageItem `json:"ai_response"`
}

func toMessageItem(m models.ChatMessage) MessageItem {
	return MessageItem{
		ID:          m.ID,
		Role:        m.Role,
		Content:     m.Content,
		Corrections: m.Corrections,
		CreatedAt:   m.CreatedAt,
	}
}

func toSessionDetail(s *models.ChatSession) SessionDetail {
	detail := SessionDetail{
		ID:           s.ID,
		Mode:         s.Mode,
		Title:        s.Title,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Messages:     make([]MessageItem, 0, len(s.Messages)),
		MessageCount: len(s.Messages),
	}
	for _, m := range s.Messages {
		detail.Messages = append(detail.Messages, toMessageItem(m))
	}
	return detail
}

func toSessionListItem(s repository.SessionSummary) SessionListItem {
	item := SessionListItem{
		ID:           s.Session.ID,
		Mode:         s.Session.Mode,
		Title:        s.Session.Title,
		IsActive:     s.Session.IsActive,
		CreatedAt:    s.Session.CreatedAt,
		UpdatedAt:    s.Session.UpdatedAt,
		MessageCount: s.MessageCount,
	}
	if s.LastMessage != nil {
		item.LastMessage = &LastMessage{
			Content:   truncateRunes(s.LastMessage.Content, lastMessagePreview),
			Role:      s.LastMessage.Role,
			CreatedAt: s.LastMessage.CreatedAt,
		}
	}
	return item
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func parseMode(raw string, fallback models.ChatMode) (models.ChatMode, map[string]string) {
	if raw == "" {
		return fallback, nil
	}
	mode, ok := models.ParseChatMode(raw)
	if !ok {
		return "", map[string]string{"mode": "Must be one of: BEGINNER GRAMMAR CONVERSATION."}
	}
	return mode, nil
}

// SendMessage godoc
// @Summary Talk to the tutor
// @Description Appends the message to a session (created when session_id is empty) and returns the tutor's reply. A model failure yields an apology reply, still 200.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Message"
// @Success 200 {object} SendMessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/send [post]
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	user, err := currentUser(c, cc.DB)
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	mode, errs := parseMode(req.Mode, models.ChatModeBeginner)
	if errs != nil {
		return utils.ValidationError(c, errs)
	}
	if req.SessionID != nil && *req.SessionID == 0 {
		req.SessionID = nil
	}

	result, err := cc.Tutor.SendMessage(c.UserContext(), user, req.SessionID, mode, req.Message)
	if err != nil {
		return serviceError(c, err, "Chat session not found")
	}

	return c.JSON(SendMessageResponse{
		SessionID:   result.Session.ID,
		UserMessage: toMessageItem(result.UserMessage),
		AIResponse:  toMessageItem(result.AssistantMessage),
	})
}

// ListSessions godoc
// @Summary List chat sessions
// @Tags chat
// @Produce json
// @Success 200 {array} SessionListItem
// @Security ApiKeyAuth
// @Router /chat/sessions [get]
func (cc *ChatController) ListSessions(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	sessions, err := cc.Tutor.ListSessions(c.UserContext(), userID)
	if err != nil {
		return err
	}
	result := make([]SessionListItem, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, toSessionListItem(s))
	}
	return c.JSON(result)
}

// CreateSession godoc
// @Summary Open a chat session
// @Tags chat
// @Accept json
// @Produce json
// @Param request body SessionRequest true "Session"
// @Success 201 {object} SessionDetail
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/sessions [post]
func (cc *ChatController) CreateSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req SessionRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	rawMode := ""
	if req.Mode != nil {
		rawMode = *req.Mode
	}
	mode, errs := parseMode(rawMode, models.ChatModeBeginner)
	if errs != nil {
		return utils.ValidationError(c, errs)
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	session, err := cc.Tutor.CreateSession(c.UserContext(), userID, mode, title, active)
	if err != nil {
		return err
	}
	return utils.Created(c, toSessionDetail(session))
}

// GetSession godoc
// @Summary Chat session with messages
// @Tags chat
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} SessionDetail
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/sessions/{id} [get]
func (cc *ChatController) GetSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	session, err := cc.Tutor.GetSession(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(c, err, "Chat session not found")
	}
	return c.JSON(toSessionDetail(session))
}

// UpdateSession godoc
// @Summary Update a chat session
// @Description Changes title, mode or the active flag
// @Tags chat
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body SessionRequest true "Fields to change"
// @Success 200 {object} SessionDetail
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/sessions/{id} [patch]
func (cc *ChatController) UpdateSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req SessionRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	patch := services.SessionPatch{Title: req.Title, IsActive: req.IsActive}
	if req.Mode != nil {
		mode, errs := parseMode(*req.Mode, models.ChatModeBeginner)
		if errs != nil {
			return utils.ValidationError(c, errs)
		}
		patch.Mode = &mode
	}

	session, err := cc.Tutor.UpdateSession(c.UserContext(), userID, id, patch)
	if err != nil {
		return serviceError(c, err, "Chat session not found")
	}
	return c.JSON(toSessionDetail(session))
}

// DeleteSession godoc
// @Summary Delete a chat session
// @Tags chat
// @Param id path int true "Session ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/sessions/{id} [delete]
func (cc *ChatController) DeleteSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := cc.Tutor.DeleteSession(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err, "Chat session not found")
	}
	return utils.NoContent(c)
}

// ClearSession godoc
// @Summary Clear a chat session
// @Description Deletes every message but keeps the session
// @Tags chat
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/sessions/{id}/clear [delete]
func (cc *ChatController) ClearSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := cc.Tutor.ClearSession(c.UserContext(), userID, id); err != nil {
		return serviceError(c, err, "Chat session not found")
	}
	return c.JSON(fiber.Map{"message": "Chat session cleared successfully"})
}
