package gateway

import (
	"fmt"

	"github.com/smartride/smartride-web/internal/core/ports"
)

// NetworkMessage is shown when the API could not be reached at all.
const NetworkMessage = "Cannot reach server. Please try again later."

// Kind classifies an API failure.
type Kind int

const (
	// KindServer: the API answered with a non-2xx status.
	KindServer Kind = iota + 1
	// KindNetwork: no response was received (dial error, timeout, reset).
	KindNetwork
	// KindRequest: the request could not be built or sent.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method on failure.
type Error struct {
	Kind     Kind
	Endpoint string
	// Status is the HTTP status for KindServer, 0 otherwise.
	Status int
	// Message is safe to show to the user.
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindServer {
		return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %v", e.Endpoint, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Endpoint, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

var _ ports.APIError = (*Error)(nil)

func (e *Error) UserMessage() string { return e.Message }

func (e *Error) HTTPStatus() int {
	if e.Kind == KindServer {
		return e.Status
	}
	return 0
}

func (e *Error) Unreachable() bool { return e.Kind == KindNetwork }
