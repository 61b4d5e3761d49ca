package controllers

import (
	"germanlearn/backend/config"
	"germanlearn/backend/middleware"
	"germanlearn/backend/models"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewProgressController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Progress: progress}
}

type ProgressItem struct {
	ID                   uint              `json:"id"`
	Lesson               uint              `json:"lesson"`
	LessonTitle          string            `json:"lesson_title"`
	LessonType           models.LessonType `json:"lesson_type"`
	CompletionPercentage int               `json:"completion_percentage"`
	Score                *int              `json:"score"`
	TimeSpentMinutes     int               `json:"time_spent_minutes"`
	StartedAt            time.Time         `json:"started_at"`
	CompletedAt          *time.Time        `json:"completed_at"`
	LastAccessed         time.Time         `json:"last_accessed"`
}

type RecordProgressRequest struct {
	LessonID uint `json:"lesson_id" validate:"required"`
}

func toProgressItem(p models.UserProgress) ProgressItem {
	item := ProgressItem{
		ID:                   p.ID,
		Lesson:               p.LessonID,
		CompletionPercentage: p.CompletionPercentage,
		Score:                p.Score,
		TimeSpentMinutes:     p.TimeSpentMinutes,
		StartedAt:            p.StartedAt,
		CompletedAt:          p.CompletedAt,
		LastAccessed:         p.LastAccessed,
	}
	if p.Lesson != nil {
		item.LessonTitle = p.Lesson.Title
		item.LessonType = p.Lesson.LessonType
	}
	return item
}

// ListProgress godoc
// @Summary List lesson progress
// @Description The caller's progress rows, most recently accessed first
// @Tags progress
// @Produce json
// @Success 200 {array} ProgressItem
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) ListProgress(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	rows, err := pc.Progress.ListProgress(c.UserContext(), userID)
	if err != nil {
		return err
	}
	result := make([]ProgressItem, 0, len(rows))
	for _, p := range rows {
		result = append(result, toProgressItem(p))
	}
	return c.JSON(result)
}

// RecordProgress godoc
// @Summary Start tracking a lesson
// @Description Get-or-create the caller's progress row for a lesson
// @Tags progress
// @Accept json
// @Produce json
// @Param request body RecordProgressRequest true "Lesson"
// @Success 201 {object} ProgressItem
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [post]
func (pc *ProgressController) RecordProgress(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req RecordProgressRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}

	progress, err := pc.Progress.RecordProgress(c.UserContext(), userID, req.LessonID)
	if err != nil {
		return serviceError(c, err, "Lesson not found")
	}
	full, err := pc.Progress.GetProgress(c.UserContext(), userID, progress.ID)
	if err != nil {
		return err
	}
	return utils.Created(c, toProgressItem(*full))
}

// GetProgress godoc
// @Summary Progress row
// @Tags progress
// @Produce json
// @Param id path int true "Progress ID"
// @Success 200 {object} ProgressItem
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/{id} [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	progress, err := pc.Progress.GetProgress(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(c, err, "Progress not found")
	}
	return c.JSON(toProgressItem(*progress))
}

// GetStreak godoc
// @Summary Daily streak
// @Description Records today's activity and returns the streak
// @Tags progress
// @Produce json
// @Success 200 {object} models.UserStreak
// @Security ApiKeyAuth
// @Router /progress/streak [get]
func (pc *ProgressController) GetStreak(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	streak, err := pc.Progress.UpdateStreak(c.UserContext(), userID, pc.Progress.Now())
	if err != nil {
		return err
	}
	return c.JSON(streak)
}

// ListAchievements godoc
// @Summary Achievements
// @Tags progress
// @Produce json
// @Success 200 {array} models.Achievement
// @Security ApiKeyAuth
// @Router /progress/achievements [get]
func (pc *ProgressController) ListAchievements(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	achievements, err := pc.Progress.ListAchievements(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	return c.JSON(achievements)
}

// GetDashboard godoc
// @Summary Dashboard statistics
// @Tags progress
// @Produce json
// @Success 200 {object} services.Dashboard
// @Security ApiKeyAuth
// @Router /progress/dashboard [get]
func (pc *ProgressController) GetDashboard(c *fiber.Ctx) error {
	user, err := currentUser(c, pc.DB)
	if err != nil {
		return err
	}
	dashboard, err := pc.Progress.Dashboard(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
