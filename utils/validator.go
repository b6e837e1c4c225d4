package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"salesforge/models"
)

var validate = validator.New()

func init() {
	// Domain enumerations used by request structs
	_ = validate.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return models.ValidStage(fl.Field().String())
	})
	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(fl.Field().String())
	})
	_ = validate.RegisterValidation("activity_type", func(fl validator.FieldLevel) bool {
		return models.ValidActivityType(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	// Format validation errors
	var errors []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errors = append(errors, field+" is required")
		case "min":
			errors = append(errors, field+" must be at least "+param+" characters")
		case "max":
			errors = append(errors, field+" must be at most "+param+" characters")
		case "email":
			errors = append(errors, field+" must be a valid email")
		case "stage":
			errors = append(errors, field+" must be a valid pipeline stage")
		case "role":
			errors = append(errors, field+" must be one of admin, manager, member")
		case "activity_type":
			errors = append(errors, field+" must be one of note, call, email, stage_change")
		default:
			errors = append(errors, field+" is invalid")
		}
	}

	return fmt.Errorf(strings.Join(errors, ", "))
}
