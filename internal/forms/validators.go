package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Error codes raised by the built-in validators
const (
	CodeRequired        = "required"
	CodeEmail           = "email"
	CodeMinLength       = "minLength"
	CodeMaxLength       = "maxLength"
	CodePattern         = "pattern"
	CodeInvalidPassword = "invalidPassword"
	CodeMismatch        = "mismatch"
	CodeMinItems        = "minItems"
	CodeMaxItems        = "maxItems"
	CodeDuplicate       = "duplicate"
)

const passwordMinLength = 6

// use a single instance, it caches tag parsing
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isPassword(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register password validation: %v", err))
	}
	return v
}

func isPassword(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func passes(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func length(value any) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}

// Required fails on an empty string or an empty array
func Required() Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) || !passes(value, "required") {
			return &ValidationError{Code: CodeRequired, Params: ErrorParams{}}
		}
		return nil
	}
}

func Email() Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) || passes(value, "email") {
			return nil
		}
		return &ValidationError{Code: CodeEmail, Params: ErrorParams{}}
	}
}

// MinLength fails when a non-empty string has fewer than n runes
func MinLength(n int) Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) || passes(value, fmt.Sprintf("min=%d", n)) {
			return nil
		}
		return &ValidationError{Code: CodeMinLength, Params: ErrorParams{
			"requiredLength": n,
			"actualLength":   length(value),
		}}
	}
}

// MaxLength fails when a string has more than n runes
func MaxLength(n int) Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) || passes(value, fmt.Sprintf("max=%d", n)) {
			return nil
		}
		return &ValidationError{Code: CodeMaxLength, Params: ErrorParams{
			"requiredLength": n,
			"actualLength":   length(value),
		}}
	}
}

// Pattern fails when a non-empty value does not fully match expr
func Pattern(expr string) Validator {
	re := regexp.MustCompile("^(?:" + expr + ")$")
	return func(value any) *ValidationError {
		s, _ := value.(string)
		if s == "" || re.MatchString(s) {
			return nil
		}
		return &ValidationError{Code: CodePattern, Params: ErrorParams{
			"requiredPattern": expr,
			"actualValue":     s,
		}}
	}
}

// Password requires at least six characters including a number
func Password() Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) || passes(value, "password") {
			return nil
		}
		return &ValidationError{Code: CodeInvalidPassword, Params: ErrorParams{
			"requiredLength": passwordMinLength,
		}}
	}
}

// EqualTo fails when the value differs from other's current value
func EqualTo(other *Control) Validator {
	return func(value any) *ValidationError {
		s, _ := value.(string)
		if s == "" || s == other.Text() {
			return nil
		}
		return &ValidationError{Code: CodeMismatch, Params: ErrorParams{
			"field": other.Name(),
		}}
	}
}

// MinItems fails when an array holds fewer than n items
func MinItems(n int) Validator {
	return func(value any) *ValidationError {
		if passes(value, fmt.Sprintf("min=%d", n)) {
			return nil
		}
		return &ValidationError{Code: CodeMinItems, Params: ErrorParams{
			"requiredItems": n,
			"actualItems":   length(value),
		}}
	}
}

func MaxItems(n int) Validator {
	return func(value any) *ValidationError {
		if passes(value, fmt.Sprintf("max=%d", n)) {
			return nil
		}
		return &ValidationError{Code: CodeMaxItems, Params: ErrorParams{
			"requiredItems": n,
			"actualItems":   length(value),
		}}
	}
}

// Unique fails when two non-empty array items are equal ignoring case
func Unique() Validator {
	return func(value any) *ValidationError {
		items, _ := value.([]string)
		normalized := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
				normalized = append(normalized, item)
			}
		}
		if len(normalized) == 0 || passes(normalized, "unique") {
			return nil
		}
		return &ValidationError{Code: CodeDuplicate, Params: ErrorParams{
			"value": firstDuplicate(normalized),
		}}
	}
}

func firstDuplicate(items []string) string {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return item
		}
		seen[item] = true
	}
	return ""
}
