package controllers

import (
	"errors"
	"germanlearn/backend/config"
	"germanlearn/backend/middleware"
	"germanlearn/backend/models"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LessonsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewLessonsController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg, Progress: progress}
}

type LessonListItem struct {
	ID               uint              `json:"id"`
	Title            string            `json:"title"`
	LessonType       models.LessonType `json:"lesson_type"`
	EstimatedMinutes int               `json:"estimated_minutes"`
	ModuleTitle      string            `json:"module_title"`
	CourseLevel      models.Level      `json:"course_level"`
	Order            int               `json:"order"`
}

type LessonDetail struct {
	ID               uint                `json:"id"`
	Title            string              `json:"title"`
	LessonType       models.LessonType   `json:"lesson_type"`
	Content          string              `json:"content"`
	Order            int                 `json:"order"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	ModuleTitle      string              `json:"module_title"`
	CourseLevel      models.Level        `json:"course_level"`
	Vocabulary       []models.Vocabulary `json:"vocabulary"`
	Exercises        []models.Exercise   `json:"exercises"`
	CreatedAt        time.Time           `json:"created_at"`
}

type SubmitExerciseRequest struct {
	ExerciseID uint   `json:"exercise_id" validate:"required"`
	UserAnswer string `json:"user_answer" validate:"required"`
}

func lessonContext(l models.Lesson) (string, models.Level) {
	if l.Module == nil {
		return "", ""
	}
	var level models.Level
	if l.Module.Course != nil {
		level = l.Module.Course.Level
	}
	return l.Module.Title, level
}

// ListLessons godoc
// @Summary List lessons
// @Description Published lessons, filterable by module and course level
// @Tags lessons
// @Produce json
// @Param module query int false "Module ID"
// @Param level query string false "CEFR level"
// @Success 200 {array} LessonListItem
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons [get]
func (lc *LessonsController) ListLessons(c *fiber.Ctx) error {
	q := lc.DB.WithContext(c.UserContext()).
		Preload("Module.Course").
		Where("lessons.is_published = ?", true).
		Order("lessons.module_id ASC, lessons.sort_order ASC, lessons.id ASC")

	if raw := c.Query("module"); raw != "" {
		moduleID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ValidationError(c, map[string]string{"module": "Must be a module id."})
		}
		q = q.Where("lessons.module_id = ?", moduleID)
	}
	if raw := c.Query("level"); raw != "" {
		level, ok := models.ParseLevel(raw)
		if !ok {
			return utils.ValidationError(c, map[string]string{"level": "Unknown level."})
		}
		q = q.Joins("JOIN modules ON modules.id = lessons.module_id").
			Joins("JOIN courses ON courses.id = modules.course_id").
			Where("courses.level = ?", level)
	}

	var lessons []models.Lesson
	if err := q.Find(&lessons).Error; err != nil {
		return err
	}

	result := make([]LessonListItem, 0, len(lessons))
	for _, l := range lessons {
		moduleTitle, level := lessonContext(l)
		result = append(result, LessonListItem{
			ID:               l.ID,
			Title:            l.Title,
			LessonType:       l.LessonType,
			EstimatedMinutes: l.EstimatedMinutes,
			ModuleTitle:      moduleTitle,
			CourseLevel:      level,
			Order:            l.Order,
		})
	}
	return c.JSON(result)
}

// GetLesson godoc
// @Summary Lesson details
// @Description Lesson content with vocabulary and exercises; answers are withheld
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} LessonDetail
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (lc *LessonsController) GetLesson(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var lesson models.Lesson
	err = lc.DB.WithContext(c.UserContext()).
		Preload("Module.Course").
		Preload("Vocabulary", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
		Where("id = ? AND is_published = ?", id, true).
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Lesson not found")
	}
	if err != nil {
		return err
	}

	moduleTitle, level := lessonContext(lesson)
	detail := LessonDetail{
		ID:               lesson.ID,
		Title:            lesson.Title,
		LessonType:       lesson.LessonType,
		Content:          lesson.Content,
		Order:            lesson.Order,
		EstimatedMinutes: lesson.EstimatedMinutes,
		ModuleTitle:      moduleTitle,
		CourseLevel:      level,
		Vocabulary:       lesson.Vocabulary,
		Exercises:        lesson.Exercises,
		CreatedAt:        lesson.CreatedAt,
	}
	if detail.Vocabulary == nil {
		detail.Vocabulary = []models.Vocabulary{}
	}
	if detail.Exercises == nil {
		detail.Exercises = []models.Exercise{}
	}
	return c.JSON(detail)
}

// CompleteLesson godoc
// @Summary Complete a lesson
// @Description Marks the lesson 100% complete for the caller
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/complete [post]
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	progress, err := lc.Progress.CompleteLesson(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(c, err, "Lesson not found")
	}
	return c.JSON(fiber.Map{
		"message":  "Lesson completed successfully",
		"progress": progress.CompletionPercentage,
	})
}

// SubmitExercise godoc
// @Summary Submit an exercise answer
// @Description Grades the answer; the correct answer is revealed only when wrong
// @Tags lessons
// @Accept json
// @Produce json
// @Param request body SubmitExerciseRequest true "Answer"
// @Success 200 {object} services.SubmissionResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/exercises/submit [post]
func (lc *LessonsController) SubmitExercise(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req SubmitExerciseRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}

	result, err := lc.Progress.SubmitExerciseAnswer(c.UserContext(), userID, req.ExerciseID, req.UserAnswer)
	if err != nil {
		return serviceError(c, err, "Exercise not found")
	}
	return c.JSON(result)
}
