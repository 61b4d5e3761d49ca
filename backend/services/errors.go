package services

import (
	"errors"
	"germanlearn/backend/repository"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = repository.ErrNotFound

	ErrInvalidInput = errors.New("invalid input")
)
