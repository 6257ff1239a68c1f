package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"lead-relay/models"
)

// Phone, email and sanitizer patterns
var (
	phoneStripRegex = regexp.MustCompile(`[^\d+]`)

	// Russian number: optional +7, 7 or 8 followed by exactly 10 digits
	PhoneRegex = regexp.MustCompile(`^(\+7|7|8)?[0-9]{10}$`)
	EmailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

	angleBracketRegex  = regexp.MustCompile(`[<>]`)
	scriptURIRegex     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex  = regexp.MustCompile(`(?i)on\w+=`)
	leadingNumberRegex = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// PhoneResult is the outcome of ValidatePhone
type PhoneResult struct {
	IsValid   bool
	Sanitized string
}

// EmailResult is the outcome of ValidateEmail
type EmailResult struct {
	IsValid   bool
	Sanitized string
}

// NumericResult is the outcome of ValidateNumeric. Parsed is NaN when nothing parses.
type NumericResult struct {
	IsValid bool
	Parsed  float64
}

// ValidatePhone keeps digits and '+' and checks the result against PhoneRegex.
// The sanitized value is returned whether or not it is valid.
func ValidatePhone(phone string) PhoneResult {
	sanitized := phoneStripRegex.ReplaceAllString(phone, "")
	return PhoneResult{
		IsValid:   PhoneRegex.MatchString(sanitized),
		Sanitized: sanitized,
	}
}

// ValidateEmail trims and lowercases the address before matching it.
func ValidateEmail(email string) EmailResult {
	sanitized := strings.ToLower(strings.TrimSpace(email))
	return EmailResult{
		IsValid:   EmailRegex.MatchString(sanitized),
		Sanitized: sanitized,
	}
}

// SanitizeTextInput strips angle brackets, javascript: URIs and on*= handler
// assignments, then trims. It is a denylist; escape on output as well.
func SanitizeTextInput(input string) string {
	s := angleBracketRegex.ReplaceAllString(input, "")
	s = scriptURIRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ValidateNumeric parses the leading number in value and checks min <= n <= max.
func ValidateNumeric(value string, min, max float64) NumericResult {
	parsed := ParseFloatPrefix(value)
	return NumericResult{
		IsValid: !math.IsNaN(parsed) && parsed >= min && parsed <= max,
		Parsed:  parsed,
	}
}

// ValidateNumericDefault is ValidateNumeric over [0, +Inf].
func ValidateNumericDefault(value string) NumericResult {
	return ValidateNumeric(value, 0, math.Inf(1))
}

// ParseFloatPrefix reads the longest numeric prefix after leading whitespace,
// so "2.5 м³" yields 2.5 and "abc" yields NaN.
func ParseFloatPrefix(value string) float64 {
	m := leadingNumberRegex.FindString(strings.TrimLeftFunc(value, unicode.IsSpace))
	if m == "" {
		return math.NaN()
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range values come back as ±Inf with ErrRange
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return n
		}
		return math.NaN()
	}
	return n
}

// ValidateMaterial reports whether raw names a catalog material, by value or label.
func ValidateMaterial(raw string) (models.Material, bool) {
	return models.FindMaterial(raw)
}
