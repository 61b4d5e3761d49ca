package services

import (
	"context"
	"fmt"
	"germanlearn/backend/ai"
	"germanlearn/backend/models"
	"germanlearn/backend/repository"
	"germanlearn/backend/utils"
	"strings"
	"time"
)

const (
	// HistoryLimit is how many earlier turns are loaded per reply.
	HistoryLimit = 20
	// PromptHistoryTurns is how many of those reach the model.
	PromptHistoryTurns = 10
)

type ChatStore interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, userID, sessionID uint) (*models.ChatSession, error)
	SaveSession(ctx context.Context, session *models.ChatSession) error
	TouchSession(ctx context.Context, sessionID uint, now time.Time) error
	DeleteSession(ctx context.Context, sessionID uint) error
	ListSessions(ctx context.Context, userID uint) ([]repository.SessionSummary, error)
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID uint) ([]models.ChatMessage, error)
	RecentMessages(ctx context.Context, sessionID, excludeID uint, limit int) ([]models.ChatMessage, error)
	ClearMessages(ctx context.Context, sessionID uint) (int64, error)
}

// TutorService runs tutoring conversations: every user turn is stored,
// answered by the model and the answer stored after it.
type TutorService struct {
	store  ChatStore
	oracle ai.Oracle
	log    *utils.Logger
	Now    func() time.Time
}

func NewTutorService(store ChatStore, oracle ai.Oracle, log *utils.Logger) *TutorService {
	return &TutorService{
		store:  store,
		oracle: oracle,
		log:    log.With("service", "TutorService"),
		Now:    time.Now,
	}
}

type SendResult struct {
	Session          *models.ChatSession
	UserMessage      models.ChatMessage
	AssistantMessage models.ChatMessage
}

// SessionPatch holds the editable session fields; nil means unchanged.
type SessionPatch struct {
	Title    *string
	Mode     *models.ChatMode
	IsActive *bool
}

// SystemPrompt returns the persona instructions for a mode.
func SystemPrompt(mode models.ChatMode, level models.Level) string {
	switch mode {
	case models.ChatModeGrammar:
		return fmt.Sprintf(`You are a German grammar expert for %s level students.
- Explain grammar rules clearly
- Provide examples
- Use tables and structured explanations
- Reference common mistakes`, level)
	case models.ChatModeConversation:
		return fmt.Sprintf(`You are a German conversation partner for %s level students.
- Respond naturally in German
- Gently correct mistakes
- Ask follow-up questions
- Keep the conversation flowing`, level)
	default:
		return fmt.Sprintf(`You are a friendly German language tutor for %s level students.
- Use simple German with English explanations
- Correct mistakes politely
- Encourage the learner
- Keep responses concise`, level)
	}
}

// BuildPrompt lays out the system prompt, the last PromptHistoryTurns of
// history in order, and the new message awaiting the assistant's turn.
func BuildPrompt(mode models.ChatMode, level models.Level, history []models.ChatMessage, message string) string {
	var b strings.Builder
	b.WriteString(SystemPrompt(mode, level))
	b.WriteString("\n\n")

	if len(history) > PromptHistoryTurns {
		history = history[len(history)-PromptHistoryTurns:]
	}
	for _, msg := range history {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}

	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}

func apologize(err error) string {
	return fmt.Sprintf("I'm sorry, I encountered an error: %v", err)
}

// SendMessage appends one exchange to a session, creating the session when
// sessionID is nil. A model failure becomes an apology reply; it is stored
// like any other turn.
func (s *TutorService) SendMessage(ctx context.Context, user *models.User, sessionID *uint, mode models.ChatMode, text string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message is empty: %w", ErrInvalidInput)
	}

	var session *models.ChatSession
	var err error
	if sessionID != nil {
		session, err = s.store.GetSession(ctx, user.ID, *sessionID)
		if err != nil {
			return nil, fmt.Errorf("chat session %d: %w", *sessionID, err)
		}
	} else {
		session, err = s.CreateSession(ctx, user.ID, mode, "", true)
		if err != nil {
			return nil, err
		}
	}

	userMsg := models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: s.Now(),
	}
	if err := s.store.AddMessage(ctx, &userMsg); err != nil {
		return nil, err
	}

	history, err := s.store.RecentMessages(ctx, session.ID, userMsg.ID, HistoryLimit)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(session.Mode, user.Level, history, text)
	reply, err := s.oracle.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("tutor reply failed", "session_id", session.ID, "error", err)
		reply = apologize(err)
	}

	now := s.Now()
	aiMsg := models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	}
	if err := s.store.AddMessage(ctx, &aiMsg); err != nil {
		return nil, err
	}
	if err := s.store.TouchSession(ctx, session.ID, now); err != nil {
		return nil, err
	}
	session.UpdatedAt = now

	return &SendResult{Session: session, UserMessage: userMsg, AssistantMessage: aiMsg}, nil
}

// CreateSession opens a session. An empty mode means BEGINNER and an empty
// title gets the dated default.
func (s *TutorService) CreateSession(ctx context.Context, userID uint, mode models.ChatMode, title string, active bool) (*models.ChatSession, error) {
	if mode == "" {
		mode = models.ChatModeBeginner
	}
	now := s.Now()
	session := &models.ChatSession{
		UserID:    userID,
		Mode:      mode,
		Title:     strings.TrimSpace(title),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.Title == "" {
		session.Title = session.DefaultTitle(now)
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *TutorService) ListSessions(ctx context.Context, userID uint) ([]repository.SessionSummary, error) {
	return s.store.ListSessions(ctx, userID)
}

// GetSession loads an owned session with its messages in order.
func (s *TutorService) GetSession(ctx context.Context, userID, sessionID uint) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.Messages = msgs
	return session, nil
}

func (s *TutorService) UpdateSession(ctx context.Context, userID, sessionID uint, patch SessionPatch) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if patch.Mode != nil {
		session.Mode = *patch.Mode
	}
	if patch.IsActive != nil {
		session.IsActive = *patch.IsActive
	}
	if patch.Title != nil {
		session.Title = strings.TrimSpace(*patch.Title)
		if session.Title == "" {
			session.Title = session.DefaultTitle(session.CreatedAt)
		}
	}
	session.UpdatedAt = s.Now()
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, userID, sessionID)
}

func (s *TutorService) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, session.ID)
}

// ClearSession deletes every message; the session stays open.
func (s *TutorService) ClearSession(ctx context.Context, userID, sessionID uint) error {
	session, err := s.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	removed, err := s.store.ClearMessages(ctx, session.ID)
	if err != nil {
		return err
	}
	s.log.Debug("chat session cleared", "session_id", session.ID, "messages", removed)
	return nil
}
