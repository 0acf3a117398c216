package errors

import (
	"regexp"
)

// maxIdentifierLength bounds method ids and diagram keys accepted from data
// files and URLs.
const maxIdentifierLength = 64

var identifierRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateIdentifier checks a method id or similar slug. Identifiers appear in
// URLs, cookie-scoped state and cache keys, so they are restricted to
// lowercase ASCII letters, digits, dash and underscore.
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxIdentifierLength)
	}
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, id)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (allowed: %v)", format, allowed)
}
