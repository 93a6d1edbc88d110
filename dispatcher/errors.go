package dispatcher

import "fmt"

// RejectedError is a non-2xx answer from the transcription API. The body is
// kept verbatim for operator diagnosis.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transcription api rejected dispatch: statusCode %v: body: '%v'", e.StatusCode, e.Body)
}

// UnreachableError is a network-level dispatch failure.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("transcription api unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
