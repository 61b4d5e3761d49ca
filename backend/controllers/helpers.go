package controllers

import (
	"errors"
	"germanlearn/backend/middleware"
	"germanlearn/backend/models"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// pathID reads a positive integer route parameter.
func pathID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return uint(id), nil
}

// currentUser loads the account the bearer token belongs to.
func currentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided")
	}
	var user models.User
	if err := db.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// serviceError maps service sentinels onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, notFoundMsg)
	case errors.Is(err, services.ErrInvalidInput):
		return utils.BadRequest(c, err.Error())
	default:
		return err
	}
}
