package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	commonTags := []string{
		"json",
		"param",
		"query",
		"header",
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	// `mode` checks the closed operating-mode set.
	validate.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		_, err := models.ParseMode(fl.Field().String())
		return err == nil
	})

	return &Validator{
		validate: validate,
	}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
