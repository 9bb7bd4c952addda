package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnparseableResponse = errors.New("unparseable model response")
	ErrInvalidResponse     = errors.New("invalid model response")
	ErrLLMNotConfigured    = errors.New("llm api key not configured")
	ErrInvalidPreferences  = errors.New("invalid preferences")
)

// ResponseError acompaña a ErrUnparseableResponse / ErrInvalidResponse con el detalle para debug.
type ResponseError struct {
	Kind  error
	Debug string
	Err   error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *ResponseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
