package petpalapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/petpal/internal/urls"
)

// ErrorType represents the category of a failed API request
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, DNS, reset)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request exceeded its deadline
	ErrTypeTimeout
	// ErrTypeHTTP indicates the service answered with a non-success status
	ErrTypeHTTP
	// ErrTypeParse indicates the response body could not be decoded
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// RequestError is returned by every Client method when a round trip fails.
// Detail carries the service's own explanation when it sent one.
type RequestError struct {
	Type       ErrorType
	Operation  string // remote operation, e.g. "predict_dog_breed_image"
	Message    string // human-readable summary
	Detail     string // service-provided detail, if any
	StatusCode int    // HTTP status code (ErrTypeHTTP only)
	RequestID  string // X-Request-ID sent with the request
	Err        error  // underlying error, if any
}

// Error implements the error interface
func (e *RequestError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Operation, e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to a user for this failure: the
// service detail when present, otherwise the summary message.
func (e *RequestError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// classifyTransportError maps an error from http.Client.Do to a RequestError.
func classifyTransportError(op string, err error) *RequestError {
	reqErr := &RequestError{
		Type:      ErrTypeNetwork,
		Operation: op,
		Message:   "network error occurred",
		Err:       err,
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		reqErr.Type = ErrTypeTimeout
		reqErr.Message = "request timed out"
		return reqErr
	}

	if errors.Is(err, context.Canceled) {
		reqErr.Message = "request canceled"
		return reqErr
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		reqErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		return reqErr
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			reqErr.Message = "service refused connection"
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			reqErr.Message = "host unreachable"
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			reqErr.Message = "network unreachable"
		}
		return reqErr
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		inner := classifyTransportError(op, urlErr.Err)
		inner.Err = err
		return inner
	}

	return reqErr
}

func newHTTPError(op string, statusCode int, body []byte) *RequestError {
	return &RequestError{
		Type:       ErrTypeHTTP,
		Operation:  op,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
		Detail:     extractDetail(body),
		StatusCode: statusCode,
	}
}

func newParseError(op string, err error) *RequestError {
	return &RequestError{
		Type:      ErrTypeParse,
		Operation: op,
		Message:   "failed to parse response",
		Err:       err,
	}
}

// extractDetail pulls the "detail" field out of an error body. The service
// sends either {"detail": "text"} or a validation list
// {"detail": [{"msg": "..."}, ...]}.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

func asRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsNetworkError reports whether err is a network-level RequestError
func IsNetworkError(err error) bool {
	reqErr, ok := asRequestError(err)
	return ok && reqErr.Type == ErrTypeNetwork
}

// IsTimeoutError reports whether err is a timed-out RequestError
func IsTimeoutError(err error) bool {
	reqErr, ok := asRequestError(err)
	return ok && reqErr.Type == ErrTypeTimeout
}

// IsHTTPError reports whether err is a non-success-status RequestError
func IsHTTPError(err error) bool {
	reqErr, ok := asRequestError(err)
	return ok && reqErr.Type == ErrTypeHTTP
}

// IsParseError reports whether err is a response-decoding RequestError
func IsParseError(err error) bool {
	reqErr, ok := asRequestError(err)
	return ok && reqErr.Type == ErrTypeParse
}

// ErrorMessage returns the message a user should see for err: the service
// detail when present, the request summary otherwise, and a generic
// fallback for anything that is not a RequestError.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if reqErr, ok := asRequestError(err); ok {
		if msg := reqErr.UserMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error occurred"
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	reqErr, ok := asRequestError(err)
	if !ok {
		return err.Error()
	}

	switch reqErr.Type {
	case ErrTypeTimeout:
		return "PetPal API not responding (timeout)"
	case ErrTypeNetwork:
		return "Cannot reach PetPal API - check connection"
	case ErrTypeHTTP:
		if reqErr.Detail != "" {
			return reqErr.Detail
		}
		return fmt.Sprintf("PetPal API error (HTTP %d)", reqErr.StatusCode)
	case ErrTypeParse:
		return "Unexpected response from PetPal API"
	default:
		return reqErr.Message
	}
}

// GetTroubleshootingHint returns troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	reqErr, ok := asRequestError(err)
	if !ok {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch reqErr.Type {
	case ErrTypeTimeout:
		return []string{
			"The service did not answer in time",
			"Image analysis can take 10-30 seconds on a cold start",
			"Try again, or use a smaller image",
		}
	case ErrTypeNetwork:
		return []string{
			"Check your internet connection",
			"Verify the API address (petpal config show)",
			"Run 'petpal health' to test connectivity",
			"See " + urls.TroubleshootingGuide,
		}
	case ErrTypeHTTP:
		if reqErr.StatusCode >= 500 {
			return []string{
				fmt.Sprintf("The service returned HTTP %d", reqErr.StatusCode),
				"The service may be starting up or overloaded; try again shortly",
			}
		}
		return []string{
			fmt.Sprintf("The service rejected the request (HTTP %d)", reqErr.StatusCode),
			"Check the breed name, age group and dietary options",
		}
	case ErrTypeParse:
		return []string{
			"The service answered with an unexpected payload",
			"Check that the API address points at a PetPal service",
			"Endpoint reference: " + urls.APIDocs,
		}
	default:
		return nil
	}
}
