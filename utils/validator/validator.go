package validatorx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/muhammadheryan/landing-api/constant"
)

var (
	v   *gpvalidator.Validate
	mut sync.Mutex
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s().-]+$`)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 14
)

// Init initializes the validator singleton (idempotent)
func Init() {
	mut.Lock()
	defer mut.Unlock()
	if v != nil {
		return
	}
	nv := gpvalidator.New()

	// report fields by their json name so messages match what the form posted
	nv.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = nv.RegisterValidation("phone", func(fl gpvalidator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = nv.RegisterValidation("service_type", func(fl gpvalidator.FieldLevel) bool {
		return constant.IsValidServiceType(fl.Field().String())
	})
	_ = nv.RegisterValidation("submission_status", func(fl gpvalidator.FieldLevel) bool {
		return constant.SubmissionStatus(fl.Field().String()).IsValid()
	})
	v = nv
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	if v == nil {
		Init()
	}
	return v.Struct(s)
}

// IsPhone accepts digits with common punctuation, holding 10 to 14 digits.
func IsPhone(s string) bool {
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// Messages turns the result of ValidateStruct into one readable sentence per
// violated field. Errors that are not validation errors yield a single entry.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs gpvalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe gpvalidator.FieldError) string {
	field := fe.Field()
	switch field {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be between 2 and 100 characters"
	case "email":
		switch fe.Tag() {
		case "required_without":
			return "Please provide an email address or a phone number"
		case "max":
			return "Email must be at most 254 characters"
		}
		return "Please provide a valid email address"
	case "phone":
		if fe.Tag() == "max" {
			return "Phone must be at most 32 characters"
		}
		return "Please provide a valid phone number (10 to 14 digits)"
	case "service_type":
		if fe.Tag() == "required" {
			return "Service type is required"
		}
		return "Please select a valid service type"
	case "message":
		if fe.Tag() == "required" {
			return "Message is required"
		}
		return "Message must be between 10 and 2000 characters"
	case "status":
		return "Status must be one of new, in_progress, resolved, cancelled"
	}
	if fe.Tag() == "required" {
		return fmt.Sprintf("%s is required", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
