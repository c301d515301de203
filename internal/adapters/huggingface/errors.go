package huggingface

import (
	"errors"
	"fmt"
)

// apiError represents a non-success response from the dataset hub.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("huggingface: %s (status %d)", e.Message, e.StatusCode)
}

type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("huggingface client: %s: %v", e.Message, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err came from a hub response rather than from
// the network.
func IsAPIError(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr)
}
