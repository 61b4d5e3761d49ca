package repository

import (
	"context"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.InitDB(&config.Config{
		DBDriver: "sqlite",
		DBName:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, utils.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestListSessionsSummaries(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	user := models.User{Username: "lena", Email: "lena@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	other := models.User{Username: "otto", Email: "otto@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)

	newSession := func(owner uint, title string, updated time.Time) *models.ChatSession {
		s := &models.ChatSession{UserID: owner, Mode: models.ChatModeBeginner, Title: title, IsActive: true, CreatedAt: base, UpdatedAt: updated}
		require.NoError(t, repo.CreateSession(ctx, s))
		return s
	}
	addMessage := func(sessionID uint, role models.MessageRole, content string) {
		require.NoError(t, repo.AddMessage(ctx, &models.ChatMessage{SessionID: sessionID, Role: role, Content: content, CreatedAt: base}))
	}

	older := newSession(user.ID, "older", base.Add(time.Minute))
	newer := newSession(user.ID, "newer", base.Add(time.Hour))
	empty := newSession(user.ID, "empty", base)
	foreign := newSession(other.ID, "foreign", base.Add(2*time.Hour))

	addMessage(older.ID, models.RoleUser, "eins")
	addMessage(newer.ID, models.RoleUser, "zwei")
	addMessage(older.ID, models.RoleAssistant, "drei")
	addMessage(newer.ID, models.RoleAssistant, "vier")
	addMessage(newer.ID, models.RoleUser, "fünf")
	addMessage(foreign.ID, models.RoleUser, "fremd")

	got, err := repo.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, newer.ID, got[0].Session.ID)
	assert.EqualValues(t, 3, got[0].MessageCount)
	require.NotNil(t, got[0].LastMessage)
	assert.Equal(t, "fünf", got[0].LastMessage.Content)

	assert.Equal(t, older.ID, got[1].Session.ID)
	assert.EqualValues(t, 2, got[1].MessageCount)
	require.NotNil(t, got[1].LastMessage)
	assert.Equal(t, "drei", got[1].LastMessage.Content)
	assert.Equal(t, models.RoleAssistant, got[1].LastMessage.Role)

	assert.Equal(t, empty.ID, got[2].Session.ID)
	assert.Zero(t, got[2].MessageCount)
	assert.Nil(t, got[2].LastMessage)
}

func TestListSessionsEmpty(t *testing.T) {
	db := newTestDB(t)

	got, err := NewChatRepository(db).ListSessions(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCreateSessionKeepsInactiveFlag(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	user := models.User{Username: "ina", Email: "ina@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	s := &models.ChatSession{UserID: user.ID, Mode: models.ChatModeGrammar, Title: "Pause", IsActive: false}
	require.NoError(t, repo.CreateSession(ctx, s))

	stored, err := repo.GetSession(ctx, user.ID, s.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
