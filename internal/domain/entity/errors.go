package entity

import (
	"errors"
	"fmt"
)

// ErrAuthentication means the provider rejected the session credentials
var ErrAuthentication = errors.New("authentication failed")

// FetchExhaustedError is returned when every retry against one URL failed
type FetchExhaustedError struct {
	URL        string
	LastStatus int
	Attempts   int
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts (last status %d)", e.URL, e.Attempts, e.LastStatus)
}

// NotFoundError means the provider redirected away from an unknown identifier
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist on the provider", e.Identifier)
}

// MissingInputError means a required input file is absent
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file %s not found: create it first", e.Path)
}

// UnexpectedPayloadError means a provider response lacks a mandatory field
type UnexpectedPayloadError struct {
	Target string
	Field  string
}

func (e *UnexpectedPayloadError) Error() string {
	return fmt.Sprintf("unexpected payload for %s: missing %s", e.Target, e.Field)
}
