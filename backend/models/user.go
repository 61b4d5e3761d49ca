package models

import "time"

type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Username            string         `gorm:"uniqueIndex;not null" json:"username"`
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"not null" json:"-"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	Level               Level          `gorm:"column:language_level;size:2;not null;default:A1" json:"language_level"`
	NativeLanguage      NativeLanguage `gorm:"size:2;not null;default:EN" json:"native_language"`
	Bio                 string         `json:"bio"`
	DailyGoalMinutes    int            `gorm:"not null;default:30" json:"daily_goal_minutes"`
	NotificationEnabled bool           `gorm:"not null" json:"notification_enabled"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
