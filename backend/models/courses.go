package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description"`
	Level       Level     `gorm:"size:2;not null;index" json:"level"`
	Thumbnail   string    `json:"thumbnail"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	Modules     []Module  `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Course      *Course   `json:"-"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `json:"description"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Lessons     []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lesson struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	ModuleID         uint         `gorm:"not null;index" json:"module_id"`
	Module           *Module      `json:"-"`
	Title            string       `gorm:"size:200;not null" json:"title"`
	LessonType       LessonType   `gorm:"size:20;not null" json:"lesson_type"`
	Content          string       `json:"content"`
	Order            int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	EstimatedMinutes int          `gorm:"not null;default:15" json:"estimated_minutes"`
	IsPublished      bool         `gorm:"not null" json:"is_published"`
	Vocabulary       []Vocabulary `gorm:"constraint:OnDelete:CASCADE" json:"vocabulary,omitempty"`
	Exercises        []Exercise   `gorm:"constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type Vocabulary struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LessonID          uint      `gorm:"not null;index" json:"lesson_id"`
	Word              string    `gorm:"size:100;not null" json:"word"`
	Translation       string    `gorm:"size:100;not null" json:"translation"`
	Pronunciation     string    `gorm:"size:100" json:"pronunciation"`
	ExampleSentenceDE string    `gorm:"column:example_sentence_de" json:"example_sentence_de"`
	ExampleSentenceEN string    `gorm:"column:example_sentence_en" json:"example_sentence_en"`
	AudioURL          string    `json:"audio_url"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Vocabulary) TableName() string { return "vocabulary" }

// Exercise.CorrectAnswer is never serialized; it is only revealed through
// a failed submission.
type Exercise struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	LessonID      uint           `gorm:"not null;index" json:"lesson_id"`
	Lesson        *Lesson        `json:"-"`
	ExerciseType  ExerciseType   `gorm:"size:20;not null" json:"exercise_type"`
	Question      string         `gorm:"not null" json:"question"`
	CorrectAnswer string         `gorm:"not null" json:"-"`
	Options       datatypes.JSON `json:"options,omitempty"`
	Explanation   string         `json:"explanation"`
	Order         int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt     time.Time      `json:"created_at"`
}
