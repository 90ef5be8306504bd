package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured indicates the forecast base URL is missing.
	ErrNotConfigured = errors.New("forecast: base url not configured")
	// ErrMalformedResponse indicates a 2xx response that could not be decoded.
	ErrMalformedResponse = errors.New("forecast: malformed response")
)

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("forecast %s: transport error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError reports a non-2xx response. Detail carries the service's own
// error payload when one was sent.
type ServiceError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("forecast %s: service error (%d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("forecast %s: service error (%d): %s", e.Op, e.StatusCode, e.Detail)
}

// IsNetworkError reports whether err is a transport or service failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	var svcErr *ServiceError
	return errors.As(err, &netErr) || errors.As(err, &svcErr)
}

type errorPayload struct {
	Error   json.RawMessage `json:"error"`
	Details json.RawMessage `json:"details"`
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
}

func parseServiceError(op string, status int, payload []byte) *ServiceError {
	svcErr := &ServiceError{Op: op, StatusCode: status}

	var body errorPayload
	if err := json.Unmarshal(payload, &body); err == nil {
		parts := make([]string, 0, 2)
		for _, raw := range []json.RawMessage{body.Error, body.Message} {
			if s := rawText(raw); s != "" {
				parts = append(parts, s)
				break
			}
		}
		for _, raw := range []json.RawMessage{body.Details, body.Detail} {
			if s := rawText(raw); s != "" {
				parts = append(parts, s)
				break
			}
		}
		if len(parts) > 0 {
			svcErr.Detail = strings.Join(parts, ": ")
			return svcErr
		}
	}

	svcErr.Detail = strings.TrimSpace(string(payload))
	return svcErr
}

// rawText unquotes JSON strings and compacts anything else.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
