package models

import "time"

type UserProgress struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex:idx_user_lesson" json:"-"`
	LessonID             uint       `gorm:"not null;uniqueIndex:idx_user_lesson;index" json:"lesson"`
	Lesson               *Lesson    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CompletionPercentage int        `gorm:"not null;default:0" json:"completion_percentage"`
	Score                *int       `json:"score"`
	TimeSpentMinutes     int        `gorm:"not null;default:0" json:"time_spent_minutes"`
	StartedAt            time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	LastAccessed         time.Time  `gorm:"not null;index" json:"last_accessed"`
}

func (UserProgress) TableName() string { return "user_progress" }

// UserStreak is one row per user. LastActivityDate is a calendar date at
// UTC midnight, nil until the first recorded activity.
type UserStreak struct {
	ID               uint       `gorm:"primaryKey" json:"-"`
	UserID           uint       `gorm:"not null;uniqueIndex" json:"-"`
	StreakDays       int        `gorm:"not null;default:0" json:"streak_days"`
	LongestStreak    int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"-"`
}

type Achievement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"-"`
	AchievementType AchievementType `gorm:"size:20;not null" json:"achievement_type"`
	Title           string          `gorm:"size:100;not null" json:"title"`
	Description     string          `json:"description"`
	Icon            string          `gorm:"size:50;not null" json:"icon"`
	EarnedAt        time.Time       `gorm:"not null;index" json:"earned_at"`
}
