package errors

import (
	"strings"
	"unicode"
)

// maxProjectNameLen bounds names that double as file names and URL segments.
const maxProjectNameLen = 128

// ValidateProjectName rejects project names that would be unsafe on disk or
// in a URL. The file store keeps one document per project under its name, so
// separators, traversal sequences and control characters are all refused.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "project name cannot be empty")
	case len(name) > maxProjectNameLen:
		return New(ErrCodeInvalidInput, "project name too long (max %d characters)", maxProjectNameLen)
	case strings.ContainsFunc(name, unicode.IsControl):
		return New(ErrCodeInvalidInput, "project name contains control characters")
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidInput, "project name cannot contain path separators")
	case strings.Contains(name, ".."):
		return New(ErrCodeInvalidInput, "project name cannot contain traversal sequences")
	}
	return nil
}

// ValidateKeyName checks a label, species or property name arriving from a
// recipe, flag or API request. Names become map keys and are serialized
// verbatim, so they must be printable and free of whitespace.
func ValidateKeyName(kind, name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	case len(name) > 64:
		return New(ErrCodeInvalidInput, "%s name too long (max 64 characters)", kind)
	case strings.ContainsFunc(name, func(r rune) bool { return unicode.IsControl(r) || unicode.IsSpace(r) }):
		return New(ErrCodeInvalidInput, "%s name contains whitespace or control characters", kind)
	}
	return nil
}
