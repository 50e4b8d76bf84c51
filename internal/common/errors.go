// Package common defines the error taxonomy and shared constants used across
// the sync and read paths. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig reports a missing or invalid required setting.
	ErrConfig = errors.New("config error")

	// ErrAuth reports bad credentials or a non-success auth response.
	ErrAuth = errors.New("auth error")

	// ErrFetch reports an unreachable or non-success data source.
	ErrFetch = errors.New("fetch error")

	// ErrMalformedInput reports an unparseable table payload.
	ErrMalformedInput = errors.New("malformed input")

	// ErrPersist reports a failed persistence call.
	ErrPersist = errors.New("persist error")

	// ErrUnauthorized is returned to callers of protected endpoints.
	ErrUnauthorized = errors.New("unauthorized")
)

// ConfigError names the setting that is missing.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: missing required setting %q", e.Key)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// FetchError names the upstream resource that could not be fetched.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrFetch, e.Err} }

// PersistError names the table whose write failed.
type PersistError struct {
	Table string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist error: %s: %v", e.Table, e.Err)
}

func (e *PersistError) Unwrap() []error { return []error{ErrPersist, e.Err} }
