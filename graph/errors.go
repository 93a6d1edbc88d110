package graph

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a management call references an unknown
// subscription id.
var ErrNotFound = errors.New("subscription not found")

// ErrDownloadURLNotFound is returned when the provider's recording listing
// carries no downloadable URL.
var ErrDownloadURLNotFound = errors.New("download url not found")

// ProviderError is a management-call rejection from the notification provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider rejected request: statusCode %v: body: '%v'", e.StatusCode, e.Body)
}
