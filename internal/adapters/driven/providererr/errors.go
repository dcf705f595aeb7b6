// Package providererr maps AI provider HTTP failures onto domain errors.
package providererr

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// maxBodyInError bounds how much of a response body is quoted in an error.
const maxBodyInError = 512

// FromStatus converts a non-2xx provider response into an error.
// Credential rejections wrap domain.ErrAuthInvalid and throttling wraps
// domain.ErrRateLimited so callers can classify them with errors.Is.
func FromStatus(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodyInError {
		msg = msg[:maxBodyInError] + "..."
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrAuthInvalid, status, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrRateLimited, status, msg)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}

// CheckKey returns domain.ErrAuthRequired for an empty key and
// domain.ErrAuthInvalid for one that cannot be sent in a header.
func CheckKey(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%s: %w: API key is required", provider, domain.ErrAuthRequired)
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("%s: %w: API key is malformed", provider, domain.ErrAuthInvalid)
	}
	return nil
}
