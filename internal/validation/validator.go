// Package validation adapts go-playground/validator to Echo and turns its
// errors into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// New 回傳以 json tag 作為欄位名稱的 validator
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FieldErrors 欄位名稱 → 錯誤訊息；非驗證錯誤回傳 nil
func FieldErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		Add(out, fe.Field(), message(fe))
	}
	return out
}

// Add 附加一則訊息到 field
func Add(errs map[string][]string, field, msg string) {
	errs[field] = append(errs[field], msg)
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("The %s field is required.", name)
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", name)
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must not be greater than %s.", name, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

const (
	MsgEmailTaken       = "The email has already been taken."
	MsgPasswordMismatch = "The password field confirmation does not match."
	MsgPasswordTooLong  = "The password field must not be greater than 72 bytes."
)
