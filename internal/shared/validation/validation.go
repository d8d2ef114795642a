package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Seat labels are a row letter block followed by a seat number, e.g. A1, B12,
// AA104.
var seatIDPattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

// RegisterCustomValidators installs the domain binding rules on gin's
// validator. Must run before the first request is bound.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seatid", func(fl validator.FieldLevel) bool {
			return seatIDPattern.MatchString(fl.Field().String())
		})
	}
}
