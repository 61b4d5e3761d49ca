package controllers

import (
	"errors"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

type CourseListItem struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Level        models.Level `json:"level"`
	Thumbnail    string       `json:"thumbnail"`
	TotalLessons int64        `json:"total_lessons"`
}

type ModuleItem struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	LessonCount int64  `json:"lesson_count"`
}

type CourseDetail struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Level        models.Level `json:"level"`
	Thumbnail    string       `json:"thumbnail"`
	Order        int          `json:"order"`
	IsPublished  bool         `json:"is_published"`
	Modules      []ModuleItem `json:"modules"`
	TotalLessons int64        `json:"total_lessons"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ListCourses godoc
// @Summary List courses
// @Description Published courses, optionally filtered by level
// @Tags courses
// @Produce json
// @Param level query string false "CEFR level (A1..C2)"
// @Success 200 {array} CourseListItem
// @Failure 400 {object} utils.ErrorResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	db := cc.DB.WithContext(c.UserContext())
	q := db.Where("is_published = ?", true).Order("level ASC, sort_order ASC, id ASC")

	if raw := c.Query("level"); raw != "" {
		level, ok := models.ParseLevel(raw)
		if !ok {
			return utils.ValidationError(c, map[string]string{"level": "Unknown level."})
		}
		q = q.Where("level = ?", level)
	}

	var courses []models.Course
	if err := q.Find(&courses).Error; err != nil {
		return err
	}

	counts, err := lessonCountsByCourse(db)
	if err != nil {
		return err
	}

	result := make([]CourseListItem, 0, len(courses))
	for _, course := range courses {
		result = append(result, CourseListItem{
			ID:           course.ID,
			Title:        course.Title,
			Description:  course.Description,
			Level:        course.Level,
			Thumbnail:    course.Thumbnail,
			TotalLessons: counts[course.ID],
		})
	}
	return c.JSON(result)
}

// GetCourse godoc
// @Summary Course details
// @Description A published course with its modules and lesson counts
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} CourseDetail
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	db := cc.DB.WithContext(c.UserContext())

	var course models.Course
	err = db.Preload("Modules", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).Where("id = ? AND is_published = ?", id, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Course not found")
	}
	if err != nil {
		return err
	}

	perModule, err := lessonCountsByModule(db, course.ID)
	if err != nil {
		return err
	}

	detail := CourseDetail{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Level:       course.Level,
		Thumbnail:   course.Thumbnail,
		Order:       course.Order,
		IsPublished: course.IsPublished,
		Modules:     make([]ModuleItem, 0, len(course.Modules)),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	for _, m := range course.Modules {
		n := perModule[m.ID]
		detail.TotalLessons += n
		detail.Modules = append(detail.Modules, ModuleItem{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			LessonCount: n,
		})
	}
	return c.JSON(detail)
}

// GetModule godoc
// @Summary Module details
// @Tags courses
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} ModuleItem
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/modules/{id} [get]
func (cc *CoursesController) GetModule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	db := cc.DB.WithContext(c.UserContext())

	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return err
	}

	var n int64
	if err := db.Model(&models.Lesson{}).Where("module_id = ?", module.ID).Count(&n).Error; err != nil {
		return err
	}
	return c.JSON(ModuleItem{
		ID:          module.ID,
		Title:       module.Title,
		Description: module.Description,
		Order:       module.Order,
		LessonCount: n,
	})
}

type idCount struct {
	ID    uint
	Count int64
}

func lessonCountsByCourse(db *gorm.DB) (map[uint]int64, error) {
	var rows []idCount
	err := db.Model(&models.Lesson{}).
		Select("modules.course_id AS id, COUNT(lessons.id) AS count").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Group("modules.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Count
	}
	return out, nil
}

func lessonCountsByModule(db *gorm.DB, courseID uint) (map[uint]int64, error) {
	var rows []idCount
	err := db.Model(&models.Lesson{}).
		Select("lessons.module_id AS id, COUNT(lessons.id) AS count").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Group("lessons.module_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Count
	}
	return out, nil
}
