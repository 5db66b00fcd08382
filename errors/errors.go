package errors

import "fmt"

var (
	ErrUnsupportedComponent = fmt.Errorf("unsupported component type")
	ErrMalformedComponent   = fmt.Errorf("malformed component")
	ErrMalformedMessage     = fmt.Errorf("malformed message")
	ErrParticipantMismatch  = fmt.Errorf("message participants do not match thread participants")
	ErrThreadNotFound       = fmt.Errorf("thread not found")
	ErrEmptyThread          = fmt.Errorf("thread has no messages")
)
