package controllers

import (
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
}

func NewUserController(db *gorm.DB, cfg *config.Config, progress *services.ProgressService) *UserController {
	return &UserController{DB: db, Cfg: cfg, Progress: progress}
}

// UpdateUserRequest is a partial update; absent fields keep their value.
type UpdateUserRequest struct {
	Username            *string `json:"username" validate:"omitempty,min=3,max=150"`
	FirstName           *string `json:"first_name" validate:"omitempty,max=150"`
	LastName            *string `json:"last_name" validate:"omitempty,max=150"`
	LanguageLevel       *string `json:"language_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	NativeLanguage      *string `json:"native_language" validate:"omitempty,oneof=EN AR ES FR IT PT RU TR ZH"`
	Bio                 *string `json:"bio"`
	DailyGoalMinutes    *int    `json:"daily_goal_minutes" validate:"omitempty,min=1,max=1440"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Partially updates the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param user body UpdateUserRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/profile [patch]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		taken, err := takenFields(c, uc.DB, "", username, user.ID)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return utils.ValidationError(c, taken)
		}
		user.Username = username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.LanguageLevel != nil {
		if lvl, ok := models.ParseLevel(*req.LanguageLevel); ok {
			user.Level = lvl
		}
	}
	if req.NativeLanguage != nil {
		if lang, ok := models.ParseNativeLanguage(*req.NativeLanguage); ok {
			user.NativeLanguage = lang
		}
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.DailyGoalMinutes != nil {
		user.DailyGoalMinutes = *req.DailyGoalMinutes
	}
	if req.NotificationEnabled != nil {
		user.NotificationEnabled = *req.NotificationEnabled
	}

	if err := uc.DB.WithContext(c.UserContext()).Save(user).Error; err != nil {
		return err
	}
	return c.JSON(user)
}

// GetStats godoc
// @Summary Learning statistics
// @Description Lesson counts, current streak and level of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} services.Stats
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/stats [get]
func (uc *UserController) GetStats(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.DB)
	if err != nil {
		return err
	}
	stats, err := uc.Progress.Stats(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
