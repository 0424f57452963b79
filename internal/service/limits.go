package service

import (
	"strings"
	"unicode/utf8"
)

// Column widths of the MySQL schema. Input longer than its column is a
// validation error on every backend.
const (
	maxUsernameLength    = 64
	maxEmailLength       = 255
	maxNameLength        = 255
	maxTitleLength       = 255
	maxStatusLength      = 64
	maxDescriptionLength = 65535 // TEXT, counted in bytes
)

// tooLong reports whether s has more than max characters.
func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// descriptionTooLong checks against the TEXT byte limit, which unlike the
// VARCHAR columns is not measured in characters.
func descriptionTooLong(s string) bool {
	return len(s) > maxDescriptionLength
}

// patchTooLong applies tooLong to the value patchString would store.
func patchTooLong(v *string, max int) bool {
	return v != nil && tooLong(strings.TrimSpace(*v), max)
}
