package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxSkillsPerList = 30
	MaxSkillLength   = 50
	MaxBioLength     = 500
	MaxNameLength    = 100
	MaxRoleLength    = 60
	MaxShortField    = 60
	MinEventName     = 2
	MaxEventName     = 120
	MaxDescription   = 2000
)

var (
	eventCodeRegex = regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{6}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any errors
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Add adds a validation error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns v as an error, or nil when there is nothing to report
func (v ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// ValidateEventName validates the display name of an event
func ValidateEventName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= MinEventName && n <= MaxEventName
}

// ValidateEventCode checks the shape of a join code. Callers normalize first.
func ValidateEventCode(code string) bool {
	return eventCodeRegex.MatchString(code)
}

// NormalizeEventCode trims and upper-cases a user-typed join code
func NormalizeEventCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateSkills checks one skill list against size limits
func ValidateSkills(errs *ValidationErrors, field string, skills []string) {
	if len(skills) > MaxSkillsPerList {
		errs.Add(field, fmt.Sprintf("must contain at most %d skills", MaxSkillsPerList))
		return
	}
	for _, s := range skills {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > MaxSkillLength {
			errs.Add(field, fmt.Sprintf("skills must be at most %d characters", MaxSkillLength))
			return
		}
	}
}

// ValidateMaxLength adds an error when an optional field is too long
func ValidateMaxLength(errs *ValidationErrors, field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		errs.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// SanitizeString trims whitespace and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		return string([]rune(s)[:maxLen])
	}
	return s
}

// SanitizeOptional trims an optional string and maps blank to nil
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
