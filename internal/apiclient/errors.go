package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/tidwall/gjson"
)

// Kind is a stable classification for API failures. It determines both the
// retry behavior and the message shown to the user.
type Kind string

const (
	// KindMissingCredentials means the API key was absent or empty. The
	// request is never attempted.
	KindMissingCredentials Kind = "missing_credentials"

	// KindAuth means the API rejected the supplied credentials.
	KindAuth Kind = "auth"

	// KindBadRequest means the API rejected the request shape or prompt.
	KindBadRequest Kind = "bad_request"

	// KindServer covers 5xx-class responses.
	KindServer Kind = "server"

	// KindTimeout covers network timeouts and connection resets.
	KindTimeout Kind = "timeout"

	// KindCanceled means the surrounding context was canceled.
	KindCanceled Kind = "canceled"

	// KindParse means a response body could not be decoded.
	KindParse Kind = "parse"

	// KindUnknown is the fallback for unclassifiable failures.
	KindUnknown Kind = "unknown"
)

// Error is the provider-facing error container. Every failure that crosses
// the client boundary is wrapped in one so callers can branch on Kind and
// Retryable without inspecting transport internals.
type Error struct {
	Kind       Kind
	HTTPStatus int
	Message    string
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("api: %s (HTTP %d)", msg, e.HTTPStatus)
	}
	return fmt.Sprintf("api: %s", msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError unwraps err into an *Error if one is present in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// classifyStatus maps a non-200 HTTP response to an Error. The error message
// is probed out of the body with gjson since providers disagree on whether it
// lives at "error" or "error.message".
func classifyStatus(status int, body []byte) *Error {
	msg := errorMessage(body)

	switch {
	case status == 401 || status == 403:
		if msg == "" {
			msg = "authentication rejected"
		}
		return &Error{Kind: KindAuth, HTTPStatus: status, Message: msg}
	case status == 408 || status == 429:
		if msg == "" {
			msg = "request timed out or rate limited"
		}
		return &Error{Kind: KindTimeout, HTTPStatus: status, Message: msg, Retryable: true}
	case status >= 500:
		if msg == "" {
			msg = "server error"
		}
		return &Error{Kind: KindServer, HTTPStatus: status, Message: msg, Retryable: true}
	case status >= 400:
		if msg == "" {
			msg = "malformed request"
		}
		return &Error{Kind: KindBadRequest, HTTPStatus: status, Message: msg}
	default:
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", status)
		}
		return &Error{Kind: KindUnknown, HTTPStatus: status, Message: msg}
	}
}

// classifyTransport maps a transport-level error (no HTTP response) to an
// Error. Context cancellation is surfaced as non-retryable so a SIGINT does
// not trigger the retry loop.
func classifyTransport(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindCanceled, Message: "request canceled", Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "network timeout", Retryable: true, Cause: err}
	}

	// Connection resets, refused connections and DNS hiccups arrive as
	// *url.Error / *net.OpError chains; all are worth one more try.
	return &Error{Kind: KindTimeout, Message: "connection failed: " + err.Error(), Retryable: true, Cause: err}
}

// errorMessage extracts a human-readable message from an arbitrary JSON error
// body. Falls back to the raw body for non-JSON responses.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.Type == gjson.String {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	const maxRaw = 200
	s := string(body)
	if len(s) > maxRaw {
		s = s[:maxRaw]
	}
	return s
}
