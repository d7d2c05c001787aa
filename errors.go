package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned by [New] when neither a token nor a
	// complete password-grant credential set was supplied.
	ErrMissingCredentials = errors.New("token or (username, password, client id and client secret) are required")

	// ErrSessionRequired is returned when a request is made outside an open session.
	ErrSessionRequired = errors.New("session required - call Open() or WithSession() first")

	// ErrMethodNotAllowed matches every [MethodNotAllowedError].
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrMissingAccessToken is returned when the token endpoint answers
	// without an access_token field.
	ErrMissingAccessToken = errors.New("token response has no access_token")
)

// MethodNotAllowedError is returned when a [Query] resolves to an HTTP method
// the session cannot send.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %q not allowed", e.Method)
}

func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// HTTPError is returned when the API answers with an HTTP status other than
// 200. Body holds the raw response text; it is never parsed.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if body == "" {
		body = "(empty error body)"
	}

	return fmt.Sprintf("[%d] %s", e.StatusCode, body)
}

// APIStatusError is returned when the HTTP status is 200 but the response
// envelope carries a status_code other than 200.
type APIStatusError struct {
	StatusCode int
	StatusText string
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("API status [%d] %s", e.StatusCode, e.StatusText)
}

// As lets an APIStatusError be matched as an [*HTTPError] carrying the
// envelope status and status text.
func (e *APIStatusError) As(target any) bool {
	httpErr, ok := target.(**HTTPError)
	if !ok {
		return false
	}

	*httpErr = &HTTPError{StatusCode: e.StatusCode, Body: e.StatusText}

	return true
}

// TransportError wraps the error returned by the session once the retry
// budget is spent, or immediately for errors not classified as transient.
type TransportError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 200 response body is not a valid envelope.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status carried by an [HTTPError] or an
// [APIStatusError] anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var apiErr *APIStatusError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}

	return 0, false
}
