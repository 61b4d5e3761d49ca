package services

import (
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBName:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, utils.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Level:        models.LevelB1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type lessonFixture struct {
	Lesson   models.Lesson
	Exercise models.Exercise
}

func createLesson(t *testing.T, db *gorm.DB) lessonFixture {
	t.Helper()
	course := models.Course{Title: "Deutsch A1", Level: models.LevelA1, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	module := models.Module{CourseID: course.ID, Title: "Begrüßungen"}
	require.NoError(t, db.Create(&module).Error)
	lesson := models.Lesson{ModuleID: module.ID, Title: "Hallo", LessonType: models.LessonVocabulary, IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)
	exercise := models.Exercise{
		LessonID:      lesson.ID,
		ExerciseType:  models.ExerciseTranslation,
		Question:      "Translate: Good morning",
		CorrectAnswer: "Guten Morgen",
		Explanation:   "Morgen is masculine.",
	}
	require.NoError(t, db.Create(&exercise).Error)
	return lessonFixture{Lesson: lesson, Exercise: exercise}
}
