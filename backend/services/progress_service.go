package services

import (
	"context"
	"errors"
	"fmt"
	"germanlearn/backend/models"
	"germanlearn/backend/repository"
	"germanlearn/backend/utils"
	"strings"
	"time"
)

// ProgressStore is the persistence the ledger needs.
// FindOrCreate* must be race-safe: concurrent callers get the same row.
type ProgressStore interface {
	GetLesson(ctx context.Context, lessonID uint) (*models.Lesson, error)
	GetExercise(ctx context.Context, exerciseID uint) (*models.Exercise, error)
	FindOrCreateProgress(ctx context.Context, userID, lessonID uint, now time.Time) (*models.UserProgress, bool, error)
	SaveProgress(ctx context.Context, progress *models.UserProgress) error
	ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error)
	GetProgress(ctx context.Context, userID, progressID uint) (*models.UserProgress, error)
	FindOrCreateStreak(ctx context.Context, userID uint, now time.Time) (*models.UserStreak, error)
	FindStreak(ctx context.Context, userID uint) (*models.UserStreak, error)
	SaveStreak(ctx context.Context, streak *models.UserStreak) error
	ListAchievements(ctx context.Context, userID uint, limit int) ([]models.Achievement, error)
	CountProgress(ctx context.Context, userID uint) (repository.ProgressCounts, error)
	MinutesSince(ctx context.Context, userID uint, since time.Time) (int, error)
}

// ProgressService is the per-learner ledger: lesson progress, exercise
// grading and the daily streak.
type ProgressService struct {
	store ProgressStore
	log   *utils.Logger
	Now   func() time.Time
}

func NewProgressService(store ProgressStore, log *utils.Logger) *ProgressService {
	return &ProgressService{
		store: store,
		log:   log.With("service", "ProgressService"),
		Now:   time.Now,
	}
}

type SubmissionResult struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer *string `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
}

type Dashboard struct {
	TotalLessonsStarted int                  `json:"total_lessons_started"`
	LessonsCompleted    int                  `json:"lessons_completed"`
	LessonsInProgress   int                  `json:"lessons_in_progress"`
	CurrentStreak       int                  `json:"current_streak"`
	LongestStreak       int                  `json:"longest_streak"`
	TimeThisWeekMinutes int                  `json:"time_this_week_minutes"`
	RecentAchievements  []models.Achievement `json:"recent_achievements"`
	LanguageLevel       models.Level         `json:"language_level"`
}

type Stats struct {
	TotalLessons     int          `json:"total_lessons"`
	CompletedLessons int          `json:"completed_lessons"`
	CurrentStreak    int          `json:"current_streak"`
	LanguageLevel    models.Level `json:"language_level"`
}

// RecordProgress get-or-creates the learner's row for a lesson.
func (s *ProgressService) RecordProgress(ctx context.Context, userID, lessonID uint) (*models.UserProgress, error) {
	if _, err := s.store.GetLesson(ctx, lessonID); err != nil {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, err)
	}
	progress, created, err := s.store.FindOrCreateProgress(ctx, userID, lessonID, s.Now())
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Debug("progress started", "user_id", userID, "lesson_id", lessonID)
	}
	return progress, nil
}

// CompleteLesson moves the row to 100%. Repeating it keeps the first
// completion time.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID uint) (*models.UserProgress, error) {
	progress, err := s.RecordProgress(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	progress.CompletionPercentage = 100
	if progress.CompletedAt == nil {
		progress.CompletedAt = &now
	}
	progress.LastAccessed = now
	if err := s.store.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// AnswersMatch compares trimmed answers case-insensitively.
func AnswersMatch(given, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}

// SubmitExerciseAnswer grades one answer. The lesson's progress row is
// touched whether or not the answer is right; completion is left alone.
func (s *ProgressService) SubmitExerciseAnswer(ctx context.Context, userID, exerciseID uint, answer string) (*SubmissionResult, error) {
	exercise, err := s.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", exerciseID, err)
	}

	correct := AnswersMatch(answer, exercise.CorrectAnswer)

	if _, _, err := s.store.FindOrCreateProgress(ctx, userID, exercise.LessonID, s.Now()); err != nil {
		return nil, err
	}

	result := &SubmissionResult{IsCorrect: correct, Explanation: exercise.Explanation}
	if !correct {
		answerCopy := exercise.CorrectAnswer
		result.CorrectAnswer = &answerCopy
	}
	return result, nil
}

// CalendarDay truncates t to midnight UTC of its UTC date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak applies one day's activity to a streak. Same day: unchanged.
// The day after the last activity: +1. Any longer gap, or no activity yet:
// back to 1. The bool reports whether anything changed.
func NextStreak(streak models.UserStreak, today time.Time) (models.UserStreak, bool) {
	day := CalendarDay(today)

	if streak.LastActivityDate == nil {
		streak.StreakDays = 1
	} else {
		last := CalendarDay(*streak.LastActivityDate)
		days := int(day.Sub(last).Hours() / 24)
		switch {
		case days <= 0:
			return streak, false
		case days == 1:
			streak.StreakDays++
		default:
			streak.StreakDays = 1
		}
	}

	if streak.StreakDays > streak.LongestStreak {
		streak.LongestStreak = streak.StreakDays
	}
	streak.LastActivityDate = &day
	return streak, true
}

// UpdateStreak records activity for today and persists the transition.
func (s *ProgressService) UpdateStreak(ctx context.Context, userID uint, today time.Time) (*models.UserStreak, error) {
	streak, err := s.store.FindOrCreateStreak(ctx, userID, s.Now())
	if err != nil {
		return nil, err
	}

	next, changed := NextStreak(*streak, today)
	if !changed {
		return streak, nil
	}
	if err := s.store.SaveStreak(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *ProgressService) ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	return s.store.ListProgress(ctx, userID)
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, progressID uint) (*models.UserProgress, error) {
	return s.store.GetProgress(ctx, userID, progressID)
}

func (s *ProgressService) ListAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	return s.store.ListAchievements(ctx, userID, 0)
}

// Dashboard reads the streak without advancing it.
func (s *ProgressService) Dashboard(ctx context.Context, user *models.User) (*Dashboard, error) {
	now := s.Now()

	counts, err := s.store.CountProgress(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	streak, err := s.store.FindOrCreateStreak(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.ListAchievements(ctx, user.ID, 5)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Achievement{}
	}
	minutes, err := s.store.MinutesSince(ctx, user.ID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalLessonsStarted: int(counts.Started),
		LessonsCompleted:    int(counts.Completed),
		LessonsInProgress:   int(counts.InProgress),
		CurrentStreak:       streak.StreakDays,
		LongestStreak:       streak.LongestStreak,
		TimeThisWeekMinutes: minutes,
		RecentAchievements:  recent,
		LanguageLevel:       user.Level,
	}, nil
}

func (s *ProgressService) Stats(ctx context.Context, user *models.User) (*Stats, error) {
	counts, err := s.store.CountProgress(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	current := 0
	streak, err := s.store.FindStreak(ctx, user.ID)
	switch {
	case err == nil:
		current = streak.StreakDays
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	return &Stats{
		TotalLessons:     int(counts.Started),
		CompletedLessons: int(counts.Completed),
		CurrentStreak:    current,
		LanguageLevel:    user.Level,
	}, nil
}
