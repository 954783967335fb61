package llm

import (
	"errors"
	"fmt"
)

// ErrUpstream matches every language-model provider failure via errors.Is.
var ErrUpstream = errors.New("llm upstream error")

// UpstreamError reports a failed provider call: transport failure, non-2xx status,
// quota exhaustion or a response without usable content.
type UpstreamError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// asUpstream wraps err as an UpstreamError for provider unless it already is one.
func asUpstream(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Provider: provider, Err: err}
}
