package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ParseAndValidate decodes the JSON body into dst and runs struct tag
// validation. On failure it returns the field -> message map to send back.
// An empty body is validated as a zero value.
func ParseAndValidate(c *fiber.Ctx, dst interface{}) map[string]string {
	if len(c.Body()) == 0 {
		return ValidateStruct(dst)
	}
	if err := c.BodyParser(dst); err != nil {
		return map[string]string{"body": "Cannot parse JSON"}
	}
	return ValidateStruct(dst)
}

func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	case "eqfield":
		return "Fields didn't match."
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on %q validation.", fe.Tag())
	}
}
