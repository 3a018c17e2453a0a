package backend

import (
	"encoding/json"
	"fmt"
	"sort"
)

const genericFailureMessage = "order could not be processed"

// fieldPriority is the order validation errors are surfaced in when the
// response carries no top-level detail or message.
var fieldPriority = []string{"customer", "items", "total_amount"}

// APIError carries a non-2xx response from the dbackf backend. The raw body is
// kept for debug dumps; Reason applies the user-facing extraction order.
type APIError struct {
	status int
	body   []byte
}

func NewAPIError(status int, body []byte) *APIError {
	return &APIError{status: status, body: body}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.status, e.Reason())
}

// StatusCode returns the upstream HTTP status.
func (e *APIError) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.status
}

// RawBody returns the unparsed response body.
func (e *APIError) RawBody() string {
	if e == nil {
		return ""
	}
	return string(e.body)
}

// Reason extracts the best user-facing failure message: an explicit
// detail/message field first, then the known field-specific validation
// errors, then the first error value present, then a generic message.
func (e *APIError) Reason() string {
	if e == nil || len(e.body) == 0 {
		return genericFailureMessage
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(e.body, &parsed); err != nil {
		return genericFailureMessage
	}

	for _, key := range []string{"detail", "message"} {
		if msg := firstString(parsed[key]); msg != "" {
			return msg
		}
	}

	for _, field := range fieldPriority {
		if msg := firstString(parsed[field]); msg != "" {
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}

	keys := make([]string, 0, len(parsed))
	for key := range parsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if msg := firstString(parsed[key]); msg != "" {
			return fmt.Sprintf("%s: %s", key, msg)
		}
	}

	return genericFailureMessage
}

// firstString unwraps DRF-style error values: a bare string or a list of
// strings, returning the first one found.
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}
