package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	// card payments must carry the last four digits of the card
	v.RegisterStructValidation(paymentStructValidation, Payment{})

	return v
}

func paymentStructValidation(sl validatorv10.StructLevel) {
	p := sl.Current().Interface().(Payment)
	if p.Type != "credit_card" {
		return
	}
	if !isFourDigits(p.LastFour) {
		sl.ReportError(p.LastFour, "last_four", "LastFour", "card_last_four", "")
	}
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
