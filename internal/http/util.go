package httpx

import (
	"strings"
)

// validationErrorPatterns holds common validation error substrings to classify 400 vs 5xx.
// Keeping this at package scope avoids per-call allocations in isValidationError.

var validationErrorPatterns = []string{ //nolint:gochecknoglobals // read-only cache of patterns to avoid per-call allocations
	"is required",
	"cannot be empty",
	"unsupported asset type",
	"cannot precede",
	"must be positive",
	"cannot be negative",
	"must be Buy or Sell",
	"must be at least",
}

// isValidationError checks for common validation error patterns to decide 400 vs 5xx.
// This is a stopgap until typed validation errors are adopted across services.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range validationErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
