package validator

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// Message renders a human readable description of the failure.
func (v ValidationError) Message() string {
	switch v.Tag {
	case "required":
		return v.Field + " is required"
	case "email":
		return v.Field + " must be a valid email address"
	case "eq":
		return v.Field + " must be " + v.Param
	case "min":
		return v.Field + " must be at least " + v.Param + " characters"
	case "max":
		return v.Field + " must be at most " + v.Param + " characters"
	case "gte":
		return v.Field + " must be greater than or equal to " + v.Param
	case "lte":
		return v.Field + " must be less than or equal to " + v.Param
	case "datetime":
		return v.Field + " must be a date in the format " + v.Param
	case "required_without":
		return v.Field + " is required"
	case "len":
		return v.Field + " must be exactly " + v.Param + " characters"
	case "hexadecimal":
		return v.Field + " must be hexadecimal"
	case "excluded":
		return v.Field + " must not be set for this step"
	case "onboardingstep":
		return v.Field + " must be between 0 and 4"
	case "investorcategory":
		return v.Field + " must be one of RETAIL, SOPHISTICATED, HIGH_NET_WORTH"
	case "idtype":
		return v.Field + " must be one of PASSPORT, DRIVING_LICENCE, NATIONAL_ID"
	case "strongpassword":
		return v.Field + " must be at least 8 characters and contain an upper case letter, a lower case letter, a digit and a symbol"
	}
	if v.Param != "" {
		return v.Field + " failed on " + v.Tag + "=" + v.Param
	}
	return v.Field + " is invalid"
}

// ValidationErrors collects multiple validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(v))
	for i, err := range v {
		if err.Param != "" {
			parts[i] = err.Field + " failed on " + err.Tag + "=" + err.Param
		} else {
			parts[i] = err.Field + " failed on " + err.Tag
		}
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct validates a struct using registered rules. Field names are
// json paths relative to the struct, e.g. "kyc.idType".
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		failures := make(ValidationErrors, 0, len(ve))
		for _, fe := range ve {
			failures = append(failures, ValidationError{
				Field: fieldPath(fe),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
		return failures
	}

	return err
}

// RegisterValidation exposes underlying validator custom rules.
func RegisterValidation(tag string, fn validator.Func) error {
	return getValidator().RegisterValidation(tag, fn)
}

// RegisterStructValidation registers a cross-field rule for the given types.
func RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	getValidator().RegisterStructValidation(fn, types...)
}

// IsStrongPassword reports whether s satisfies the password policy.
func IsStrongPassword(s string) bool {
	if len(s) < 8 || len(s) > 128 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i != -1 {
		return ns[i+1:]
	}
	return fe.Field()
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "" {
				return fld.Name
			}

			comma := strings.Index(name, ",")
			if comma != -1 {
				name = name[:comma]
			}

			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
	})
	return validate
}
