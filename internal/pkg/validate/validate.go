package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vape-shop-api/internal/pkg/phone"
)

// v is the package-level singleton validator. Custom rules are registered in
// init() before the first call to Struct.
var v = validator.New()

func init() {
	// phone accepts 10 to 15 digits once punctuation and spaces are removed.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		n := len(phone.Digits(fl.Field().String()))
		return n >= 10 && n <= 15
	})
	// numeric_code accepts a 6-digit one-time code.
	_ = v.RegisterValidation("numeric_code", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) == 6 && phone.Digits(s) == s
	})
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
