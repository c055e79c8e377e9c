// Package timeout defines centralized timeout constants for API operations.
package timeout

import "time"

const (
	// NormalizeTimeout bounds the normalization of one document.
	NormalizeTimeout = 10 * time.Second

	// BatchTimeout bounds a batch normalization request.
	BatchTimeout = time.Minute

	// StoreTimeout bounds a single store round trip of a request.
	StoreTimeout = 5 * time.Second

	// MaxTruncateLength is the maximum length of request values in logs.
	MaxTruncateLength = 200
)

// Truncate shortens s to MaxTruncateLength bytes for logging.
func Truncate(s string) string {
	if len(s) <= MaxTruncateLength {
		return s
	}
	return s[:MaxTruncateLength] + "..."
}
