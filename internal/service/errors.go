package service

import "fmt"

// RemoteError reports a failed call to a remote provider.
// The provider's error is kept unchanged and available through Unwrap.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
