// Package apierr classifies the failures a client action can end with.
package apierr

import (
	"errors"
	"fmt"
)

// ValidationError is raised locally, before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteRejection is a non-success response. Message holds the service's
// "erro" field and is empty when the payload carried none.
type RemoteRejection struct {
	StatusCode int
	Message    string
}

func (e *RemoteRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request with status %d", e.StatusCode)
	}
	return e.Message
}

// TransportFailure is a network, encoding or decoding failure.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// Reason is the text shown to the user for err: the service's message when it
// sent one, the transport failure otherwise, fallback when neither says anything.
func Reason(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var rej *RemoteRejection
	if errors.As(err, &rej) {
		if rej.Message != "" {
			return rej.Message
		}
		return fallback
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var tf *TransportFailure
	if errors.As(err, &tf) && tf.Err != nil {
		return tf.Err.Error()
	}

	return err.Error()
}

// IsValidation reports whether err was raised before any request.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
