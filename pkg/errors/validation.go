package errors

import (
	"strings"
	"unicode"
)

const maxIDLength = 128

// ValidateRunID checks a run id before it is used as a directory name.
func ValidateRunID(id string) error {
	return validateID("run id", id)
}

// ValidatePageID checks a page id before it is used as a file name.
func ValidatePageID(id string) error {
	return validateID("page id", id)
}

// validateID rejects empty or oversized ids, control characters and
// anything that could escape the storage directory.
func validateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}
	if id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidInput, "%s contains path characters: %q", kind, id)
	}
	return nil
}
