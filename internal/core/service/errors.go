package service

import (
	"errors"
	"net/http"

	"github.com/smartride/smartride-web/internal/core/ports"
)

// Messages shown for failures that carry no server text of their own.
const (
	msgUnreachable    = "Cannot reach server. Please try again later."
	msgSessionExpired = "Session expired. Please login again."
	msgNotAuthorized  = "You are not authorized to perform this action."
)

// apiMessage returns the user-facing text of an API failure, or fallback.
func apiMessage(err error, fallback string) string {
	var ae ports.APIError
	if !errors.As(err, &ae) {
		return fallback
	}
	if ae.Unreachable() {
		return msgUnreachable
	}
	if m := ae.UserMessage(); m != "" {
		return m
	}
	return fallback
}

func apiStatus(err error) int {
	var ae ports.APIError
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return 0
}

func isUnauthorized(err error) bool { return apiStatus(err) == http.StatusUnauthorized }

func isForbidden(err error) bool { return apiStatus(err) == http.StatusForbidden }
