package catalog

import "fmt"

// TransportError reports a failed HTTP exchange with the booking site:
// network failure, timeout, or a non-200 status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog: request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("catalog: request %s failed: status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code classifies the error for log summaries.
func (e *TransportError) Code() string { return "TRANSPORT" }

// ParseError reports HTML that does not match the expected page structure.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog: parse %s: %s", e.URL, e.Reason)
}

// Code classifies the error for log summaries.
func (e *ParseError) Code() string { return "PARSE" }
