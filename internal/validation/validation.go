// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	categoryNameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-]+$`)
	hexColorRegex     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Length limits shared by the services and the API docs.
const (
	NameMin            = 2
	NameMax            = 100
	PasswordMin        = 6
	PasswordMax        = 128
	IdeaTitleMin       = 5
	IdeaTitleMax       = 200
	IdeaDescriptionMin = 20
	IdeaDescriptionMax = 2000
	IdeaLocationMax    = 200
	MaxTags            = 10
	TagMax             = 30
	CommentMin         = 5
	CommentMax         = 1000
	CategoryNameMin    = 2
	CategoryNameMax    = 50
	CategoryDescMax    = 200
	CategoryIconMax    = 50
	BioMax             = 500
	SearchQueryMin     = 2
	SearchQueryMax     = 100
)

// Length checks s against [min, max] in characters. max <= 0 means no upper bound.
func Length(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		return fmt.Errorf("%s must be at least %d characters long", field, min)
	}
	if max > 0 && n > max {
		return fmt.Errorf("%s must not exceed %d characters", field, max)
	}
	return nil
}

// ValidatePassword requires 6-128 characters with a lowercase letter, an
// uppercase letter and a digit.
func ValidatePassword(password string) error {
	if err := Length("password", password, PasswordMin, PasswordMax); err != nil {
		return err
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	return Length("name", strings.TrimSpace(name), NameMin, NameMax)
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCategoryName allows letters, digits, spaces and hyphens.
func ValidateCategoryName(name string) error {
	if err := Length("category name", name, CategoryNameMin, CategoryNameMax); err != nil {
		return err
	}
	if !categoryNameRegex.MatchString(name) {
		return fmt.Errorf("category name can only contain letters, numbers, spaces, and hyphens")
	}
	return nil
}

// ValidateColor requires a #RRGGBB hex color.
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return fmt.Errorf("color must be a valid hex color code")
	}
	return nil
}

// ValidateCoordinates checks optional latitude/longitude ranges.
func ValidateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ParseTags splits a comma-separated tag list, dropping blanks and
// duplicates and keeping the first MaxTags entries.
func ParseTags(raw string) ([]string, error) {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > TagMax {
			return nil, fmt.Errorf("tags must not exceed %d characters each", TagMax)
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out, nil
}

// MissingFields returns the names whose values are blank, in the order given.
func MissingFields(fields [][2]string) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	return missing
}
