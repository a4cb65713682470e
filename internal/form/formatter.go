package form

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	nonLatinPattern   = regexp.MustCompile(`[^A-Za-z]+`)
	latinNamePattern  = regexp.MustCompile(`^[A-Z][a-z]+$`)
	digitsPattern     = regexp.MustCompile(`^[0-9]+$`)
	hobbyDurationForm = regexp.MustCompile(`^[0-9]+ month$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

const (
	minNameLength  = 2
	durationSuffix = " month"
)

func plainTextPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// StripMarkup removes any HTML from user text and trims it
func StripMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := plainTextPolicy().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// FormatLatinName drops everything that is not a Latin letter, then
// capitalizes the first letter and lowercases the rest: " jOhn-2 " -> "John".
func FormatLatinName(raw string) string {
	letters := nonLatinPattern.ReplaceAllString(StripMarkup(raw), "")
	if letters == "" {
		return ""
	}
	return strings.ToUpper(letters[:1]) + strings.ToLower(letters[1:])
}

// ValidLatinName reports whether name is an uppercase Latin letter followed
// by at least one lowercase Latin letter.
func ValidLatinName(name string) bool {
	return latinNamePattern.MatchString(name)
}

// ValidEmailShape checks the local@domain.tld shape
func ValidEmailShape(email string) bool {
	return emailPattern.MatchString(email)
}

// FormatDuration turns a numeric pending duration into its stored form
func FormatDuration(digits string) string {
	return digits + durationSuffix
}
