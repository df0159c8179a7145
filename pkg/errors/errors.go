package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrAPI            = errors.New("api error")
	ErrDecryption     = errors.New("decryption error")
	ErrMissingCookie  = errors.New("session cookie is required")
	ErrMissingClient  = errors.New("client id is required")
	ErrMissingImpl    = errors.New("impl path is required")
	ErrEmptyPlaintext = errors.New("decryption resulted in an empty string")
)

// Kind classifies an error returned by the portal client.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindAPI
	KindDecryption
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAPI:
		return "api"
	case KindDecryption:
		return "decryption"
	default:
		return "unknown"
	}
}

// KindOf reports which of the client's error kinds err belongs to.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrDecryption):
		return KindDecryption
	case errors.Is(err, ErrAPI):
		return KindAPI
	default:
		return KindUnknown
	}
}

// ConfigurationError is a caller bug: missing credentials or resource path.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

func (e ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func NewConfigurationError(field string, err error) error {
	return ConfigurationError{Field: field, Err: err}
}

// APIError is a transport or remote failure for a given logical key.
// StatusCode is zero when no response was received.
type APIError struct {
	Key        string
	StatusCode int
	Message    string
	Err        error
}

func (e APIError) Error() string {
	return fmt.Sprintf("API call for key '%s' failed: %s", e.Key, e.Message)
}

func (e APIError) Unwrap() error {
	return e.Err
}

func (e APIError) Is(target error) bool {
	return target == ErrAPI
}

func (e APIError) Retryable() bool {
	return true
}

func NewAPIError(key string, statusCode int, message string, err error) error {
	return APIError{
		Key:        key,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// DecryptionError covers key or cipher mismatch and malformed envelopes.
type DecryptionError struct {
	Err error
}

func (e DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %v", e.Err)
}

func (e DecryptionError) Unwrap() error {
	return e.Err
}

func (e DecryptionError) Is(target error) bool {
	return target == ErrDecryption
}

func NewDecryptionError(err error) error {
	return DecryptionError{Err: err}
}
