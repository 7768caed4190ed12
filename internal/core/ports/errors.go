package ports

import (
	"fmt"
	"net/http"
)

// UpstreamError describes a transport or parse failure against an external
// HTTP dependency (processor endpoint or rate feed). It carries the raw
// response and headers so failures can be logged with full diagnostics.
type UpstreamError struct {
	Op          string // "createorder", "orderstatus", "rates"
	Message     string
	StatusCode  int
	RawResponse string
	Headers     http.Header
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
