package controllers

import (
	"errors"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Log: log.With("controller", "auth")}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	LanguageLevel   string `json:"language_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	NativeLanguage  string `json:"native_language" validate:"omitempty,oneof=EN AR ES FR IT PT RU TR ZH"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type authResponse struct {
	User   *models.User    `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a learner account and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} authResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if errs := utils.ParseAndValidate(c, &req); errs != nil {
		return utils.ValidationError(c, errs)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	taken, err := takenFields(c, ac.DB, email, username, 0)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return utils.ValidationError(c, taken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:            username,
		Email:               email,
		PasswordHash:        string(hashedPassword),
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Level:               models.LevelA1,
		NativeLanguage:      models.NativeEnglish,
		DailyGoalMinutes:    30,
		NotificationEnabled: true,
	}
	if lvl, ok := models.ParseLevel(req.LanguageLevel); ok {
		user.Level = lvl
	}
	if lang, ok := models.ParseNativeLanguage(req.NativeLanguage); ok {
		user.NativeLanguage = lang
	}

	if err := ac.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.Log.Info("user registered", "user_id", user.ID)
	return utils.Created(c, authResponse{User: &user, Tokens: tokens})
}

// Login godoc
// @Summary User login
// @Description Authenticate by email and password, returning a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} authResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if errs := utils.ParseAndValidate(c, &input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ac.DB.WithContext(c.UserContext()).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(authResponse{User: &user, Tokens: tokens})
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/token/refresh [post]
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var input RefreshRequest
	if errs := utils.ParseAndValidate(c, &input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	userID, err := utils.ParseToken(input.Refresh, utils.TokenTypeRefresh, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Token is invalid or expired")
	}

	var count int64
	if err := ac.DB.WithContext(c.UserContext()).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.Unauthorized(c, "User not found")
	}

	access, err := utils.GenerateJWTToken(userID, utils.TokenTypeAccess, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return c.JSON(fiber.Map{"access": access})
}

// takenFields reports which of email/username already belong to another
// account than exceptID.
func takenFields(c *fiber.Ctx, db *gorm.DB, email, username string, exceptID uint) (map[string]string, error) {
	taken := map[string]string{}
	db = db.WithContext(c.UserContext())

	if email != "" {
		var n int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			taken["email"] = "A user with that email already exists."
		}
	}
	if username != "" {
		var n int64
		if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			taken["username"] = "A user with that username already exists."
		}
	}
	return taken, nil
}
