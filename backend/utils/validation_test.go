package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Level           string `json:"language_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	errs := ValidateStruct(&signup{
		Username:        "ab",
		Email:           "nope",
		Password:        "longenough",
		PasswordConfirm: "different1",
		Level:           "D1",
	})

	assert.Equal(t, "Must be at least 3.", errs["username"])
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Fields didn't match.", errs["password_confirm"])
	assert.Equal(t, "Must be one of: A1 A2 B1 B2 C1 C2.", errs["language_level"])
	assert.NotContains(t, errs, "password")
}

func TestValidateStructOK(t *testing.T) {
	errs := ValidateStruct(&signup{
		Username:        "anna",
		Email:           "anna@example.com",
		Password:        "geheim123",
		PasswordConfirm: "geheim123",
	})
	assert.Nil(t, errs)
}
