package repository

import (
	"context"
	"errors"
	"germanlearn/backend/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ProgressRepository persists lesson progress, streaks and achievements.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) GetLesson(ctx context.Context, lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.DB.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		return nil, notFound(err)
	}
	return &lesson, nil
}

func (r *ProgressRepository) GetExercise(ctx context.Context, exerciseID uint) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.DB.WithContext(ctx).First(&exercise, exerciseID).Error; err != nil {
		return nil, notFound(err)
	}
	return &exercise, nil
}

// FindOrCreateProgress returns the (user, lesson) row, inserting it first if
// missing. The insert is ON CONFLICT DO NOTHING against the unique
// (user_id, lesson_id) index, so concurrent callers converge on one row.
func (r *ProgressRepository) FindOrCreateProgress(ctx context.Context, userID, lessonID uint, now time.Time) (*models.UserProgress, bool, error) {
	db := r.DB.WithContext(ctx)
	fresh := models.UserProgress{
		UserID:       userID,
		LessonID:     lessonID,
		StartedAt:    now,
		LastAccessed: now,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}

	var progress models.UserProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		return nil, false, notFound(err)
	}
	return &progress, res.RowsAffected == 1, nil
}

func (r *ProgressRepository) SaveProgress(ctx context.Context, progress *models.UserProgress) error {
	return r.DB.WithContext(ctx).Save(progress).Error
}

func (r *ProgressRepository) ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	var rows []models.UserProgress
	err := r.DB.WithContext(ctx).
		Preload("Lesson").
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&rows).Error
	return rows, err
}

// GetProgress folds ownership into the lookup: another user's row is
// reported as missing.
func (r *ProgressRepository) GetProgress(ctx context.Context, userID, progressID uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.DB.WithContext(ctx).
		Preload("Lesson").
		Where("id = ? AND user_id = ?", progressID, userID).
		First(&progress).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &progress, nil
}

// FindOrCreateStreak relies on the unique user_id index the same way
// FindOrCreateProgress does.
func (r *ProgressRepository) FindOrCreateStreak(ctx context.Context, userID uint, now time.Time) (*models.UserStreak, error) {
	db := r.DB.WithContext(ctx)
	fresh := models.UserStreak{UserID: userID, CreatedAt: now}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var streak models.UserStreak
	if err := db.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, notFound(err)
	}
	return &streak, nil
}

func (r *ProgressRepository) SaveStreak(ctx context.Context, streak *models.UserStreak) error {
	return r.DB.WithContext(ctx).Save(streak).Error
}

// FindStreak does not create a row.
func (r *ProgressRepository) FindStreak(ctx context.Context, userID uint) (*models.UserStreak, error) {
	var streak models.UserStreak
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, notFound(err)
	}
	return &streak, nil
}

func (r *ProgressRepository) ListAchievements(ctx context.Context, userID uint, limit int) ([]models.Achievement, error) {
	var achievements []models.Achievement
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&achievements).Error
	return achievements, err
}

// ProgressCounts summarises a learner's lesson rows.
type ProgressCounts struct {
	Started    int64
	Completed  int64
	InProgress int64
}

func (r *ProgressRepository) CountProgress(ctx context.Context, userID uint) (ProgressCounts, error) {
	var counts ProgressCounts
	db := r.DB.WithContext(ctx).Model(&models.UserProgress{})

	if err := db.Where("user_id = ?", userID).Count(&counts.Started).Error; err != nil {
		return counts, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.UserProgress{}).
		Where("user_id = ? AND completion_percentage = ?", userID, 100).
		Count(&counts.Completed).Error; err != nil {
		return counts, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.UserProgress{}).
		Where("user_id = ? AND completion_percentage > ? AND completion_percentage < ?", userID, 0, 100).
		Count(&counts.InProgress).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// MinutesSince sums time_spent_minutes over rows accessed at or after since.
func (r *ProgressRepository) MinutesSince(ctx context.Context, userID uint, since time.Time) (int, error) {
	var total int
	err := r.DB.WithContext(ctx).Model(&models.UserProgress{}).
		Select("COALESCE(SUM(time_spent_minutes), 0)").
		Where("user_id = ? AND last_accessed >= ?", userID, since).
		Scan(&total).Error
	return total, err
}
