package camedomotic

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the CAME Domotic client.
// Every failure surfaced by this library wraps exactly one of the three
// kinds below; transport-layer errors are never leaked in their native form.
var (
	// ErrServerNotFound indicates the host did not answer the endpoint probe
	// at construction time. This is a configuration-level failure, not a
	// transient I/O one.
	ErrServerNotFound = errors.New("camedomotic: server not found")

	// ErrAuth indicates a session could not be established: bad credentials,
	// a rejected login, or an authentication-related acknowledgement code.
	ErrAuth = errors.New("camedomotic: authentication failed")

	// ErrServer indicates any other failure interacting with the gateway:
	// a non-2xx status, a timeout, a network error, an undecodable response,
	// or a non-authentication acknowledgement code.
	ErrServer = errors.New("camedomotic: server error")

	// ErrSessionClosed is returned when a Session is used after Close.
	ErrSessionClosed = errors.New("camedomotic: session disposed")

	// Validation errors
	ErrEmptyHost     = errors.New("camedomotic: host cannot be empty")
	ErrEmptyUsername = errors.New("camedomotic: username cannot be empty")
)

// AckError represents a non-zero acknowledgement code in a gateway response.
// It unwraps to ErrAuth for authentication codes and to ErrServer otherwise,
// so errors.Is and the Is* helpers classify it without inspecting the code.
type AckError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *AckError) Error() string {
	return fmt.Sprintf("ACK error %d: %s", e.Code, e.Message)
}

// Unwrap reports the error kind the acknowledgement code belongs to.
func (e *AckError) Unwrap() error {
	if isAuthAck(e.Code) {
		return ErrAuth
	}
	return ErrServer
}

// IsAuthError returns true if the error indicates an authentication failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsServerError returns true if the error indicates a gateway or transport failure.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsServerNotFound returns true if the error indicates the endpoint probe failed.
func IsServerNotFound(err error) bool {
	return errors.Is(err, ErrServerNotFound)
}

// IsTimeout returns true if the error was caused by a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
