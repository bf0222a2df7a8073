package fetch

import "fmt"

// ErrBadStatus indicates a non-2xx response from the product page.
type ErrBadStatus struct {
	Code int
	Err  error
}

func (e ErrBadStatus) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad status %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("bad status %d", e.Code)
}

func (e ErrBadStatus) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates a timeout while issuing the request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}
