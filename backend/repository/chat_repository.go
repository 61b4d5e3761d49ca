package repository

import (
	"context"
	"germanlearn/backend/models"
	"time"

	"gorm.io/gorm"
)

// ChatRepository stores tutor sessions and their ordered messages.
type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// SessionSummary is a session row plus listing aggregates.
type SessionSummary struct {
	Session      models.ChatSession
	MessageCount int64
	LastMessage  *models.ChatMessage
}

func (r *ChatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *ChatRepository) GetSession(ctx context.Context, userID, sessionID uint) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (r *ChatRepository) SaveSession(ctx context.Context, session *models.ChatSession) error {
	return r.DB.WithContext(ctx).Save(session).Error
}

func (r *ChatRepository) TouchSession(ctx context.Context, sessionID uint, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.ChatSession{}).
		Where("id = ?", sessionID).
		UpdateColumn("updated_at", now).Error
}

func (r *ChatRepository) DeleteSession(ctx context.Context, sessionID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatSession{}, sessionID).Error
	})
}

// ListSessions returns the user's sessions, most recently active first.
// Counts and last messages are fetched for all sessions in one query each.
func (r *ChatRepository) ListSessions(ctx context.Context, userID uint) ([]SessionSummary, error) {
	db := r.DB.WithContext(ctx)

	var sessions []models.ChatSession
	if err := db.Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []SessionSummary{}, nil
	}

	ids := make([]uint, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	var counts []struct {
		SessionID uint
		Count     int64
	}
	if err := db.Model(&models.ChatMessage{}).
		Select("session_id, COUNT(id) AS count").
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countBySession := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countBySession[c.SessionID] = c.Count
	}

	var last []models.ChatMessage
	latest := db.Model(&models.ChatMessage{}).
		Select("MAX(id)").
		Where("session_id IN ?", ids).
		Group("session_id")
	if err := db.Where("id IN (?)", latest).Find(&last).Error; err != nil {
		return nil, err
	}
	lastBySession := make(map[uint]*models.ChatMessage, len(last))
	for i := range last {
		lastBySession[last[i].SessionID] = &last[i]
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionSummary{
			Session:      s,
			MessageCount: countBySession[s.ID],
			LastMessage:  lastBySession[s.ID],
		})
	}
	return out, nil
}

func (r *ChatRepository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// ListMessages returns every turn of a session in creation order.
func (r *ChatRepository) ListMessages(ctx context.Context, sessionID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// RecentMessages returns up to limit of the newest turns other than
// excludeID, oldest first.
func (r *ChatRepository) RecentMessages(ctx context.Context, sessionID, excludeID uint, limit int) ([]models.ChatMessage, error) {
	var newestFirst []models.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND id <> ?", sessionID, excludeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&newestFirst).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, len(newestFirst))
	for i, m := range newestFirst {
		out[len(newestFirst)-1-i] = m
	}
	return out, nil
}

// ClearMessages removes all turns but leaves the session in place.
func (r *ChatRepository) ClearMessages(ctx context.Context, sessionID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.ChatMessage{})
	return res.RowsAffected, res.Error
}
