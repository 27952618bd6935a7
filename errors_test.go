package camedomotic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAckMessage(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1, "Invalid user."},
		{3, "Too many sessions during login."},
		{4, "Error occurred in JSON Syntax."},
		{5, "No session layer command tag."},
		{6, "Unrecognized session layer command."},
		{7, "No client ID in request."},
		{8, "Wrong client ID in request."},
		{9, "Wrong application command."},
		{10, "No reply to application command, maybe service down."},
		{11, "Wrong application data."},
		{2, "Unknown error code: 2"},
		{42, "Unknown error code: 42"},
		{-1, "Unknown error code: -1"},
	}
	for _, tt := range tests {
		if got := AckMessage(tt.code); got != tt.want {
			t.Errorf("AckMessage(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAckError(t *testing.T) {
	t.Run("formats code and message", func(t *testing.T) {
		err := newAckError(8)
		want := "ACK error 8: Wrong client ID in request."
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("auth codes unwrap to ErrAuth", func(t *testing.T) {
		for _, code := range []int{1, 3} {
			err := newAckError(code)
			if !errors.Is(err, ErrAuth) {
				t.Errorf("code %d should unwrap to ErrAuth", code)
			}
			if errors.Is(err, ErrServer) {
				t.Errorf("code %d must not unwrap to ErrServer", code)
			}
		}
	})

	t.Run("other codes unwrap to ErrServer", func(t *testing.T) {
		for _, code := range []int{4, 5, 6, 7, 8, 9, 10, 11, 42} {
			err := newAckError(code)
			if !errors.Is(err, ErrServer) {
				t.Errorf("code %d should unwrap to ErrServer", code)
			}
			if errors.Is(err, ErrAuth) {
				t.Errorf("code %d must not unwrap to ErrAuth", code)
			}
		}
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("sending command: %w", newAckError(1))
		var ackErr *AckError
		if !errors.As(wrapped, &ackErr) {
			t.Fatal("errors.As should find the AckError through wrapping")
		}
		if ackErr.Code != 1 {
			t.Errorf("Code = %d, want 1", ackErr.Code)
		}
		if !IsAuthError(wrapped) {
			t.Error("wrapped auth ack should still classify as auth error")
		}
	})
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		auth, server  bool
		serverMissing bool
	}{
		{"auth sentinel", ErrAuth, true, false, false},
		{"server sentinel", ErrServer, false, true, false},
		{"not found sentinel", ErrServerNotFound, false, false, true},
		{"wrapped auth", fmt.Errorf("%w: bad credentials", ErrAuth), true, false, false},
		{"wrapped server", fmt.Errorf("%w: HTTP 500", ErrServer), false, true, false},
		{"plain error", errors.New("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.auth {
				t.Errorf("IsAuthError = %v, want %v", got, tt.auth)
			}
			if got := IsServerError(tt.err); got != tt.server {
				t.Errorf("IsServerError = %v, want %v", got, tt.server)
			}
			if got := IsServerNotFound(tt.err); got != tt.serverMissing {
				t.Errorf("IsServerNotFound = %v, want %v", got, tt.serverMissing)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	t.Run("context deadline through the transport", func(t *testing.T) {
		tr := &transport{host: "192.0.2.1", httpClient: defaultHTTPClient()}
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		_, err := tr.post(ctx, map[string]any{"sl_cmd": "x"}, time.Nanosecond)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !IsServerError(err) {
			t.Errorf("timeout should classify as server error: %v", err)
		}
		if !IsTimeout(err) {
			t.Errorf("IsTimeout = false for a deadline failure: %v", err)
		}
	})

	t.Run("non-timeout errors", func(t *testing.T) {
		if IsTimeout(errors.New("boom")) {
			t.Error("plain error is not a timeout")
		}
		if IsTimeout(nil) {
			t.Error("nil is not a timeout")
		}
	})
}
