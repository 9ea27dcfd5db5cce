package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Usernames are alphanumeric plus underscore, 3 to 30 characters. They are
// lowercased before storage.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// registerCustomValidators installs the "username" rule on gin's binding engine.
// Called once from RegisterRoutes; re-registration is harmless.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}
}
