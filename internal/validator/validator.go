// Package validator registers the wallet's custom binding tags with Gin.
package validator

import (
	"regexp"

	"studentwallet/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Goal colors come from the mini-app palette either as hex codes or as CSS
// hsl() expressions such as "hsl(var(--accent-blue))".
var (
	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	hslColorRegex = regexp.MustCompile(`^hsl\([^()]*(\([^()]*\))?[^()]*\)$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("goal_color", validateGoalColor)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).Valid()
}

func validateGoalColor(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return hexColorRegex.MatchString(s) || hslColorRegex.MatchString(s)
}
