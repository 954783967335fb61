package travel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUpstream matches every travel provider failure via errors.Is.
var ErrUpstream = errors.New("travel upstream error")

// ErrNotConfigured is returned when no Amadeus credentials were provided.
var ErrNotConfigured = errors.New("amadeus credentials not configured")

// UpstreamError reports a failed Amadeus call. Detail carries the provider's
// error body when there was one.
type UpstreamError struct {
	StatusCode int // 0 when no HTTP response was received
	Detail     json.RawMessage
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("amadeus: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("amadeus: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// detailFromBody keeps JSON bodies as-is and quotes anything else.
func detailFromBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
