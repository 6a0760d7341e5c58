package errors

import "fmt"

// Credential errors

type ErrMissingCredential struct {
	Variable string
}

func (e *ErrMissingCredential) Error() string {
	return fmt.Sprintf("required credential %s is missing or empty", e.Variable)
}

type ErrMalformedCredential struct {
	Variable string
	Reason   string
}

func (e *ErrMalformedCredential) Error() string {
	return fmt.Sprintf("credential %s is malformed: %s", e.Variable, e.Reason)
}

// Config errors

type ErrConfigNotFound struct {
	Path string
}

func (e *ErrConfigNotFound) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type ErrConfigParse struct {
	Err error
}

func (e *ErrConfigParse) Error() string {
	return fmt.Sprintf("failed to parse YAML: %v", e.Err)
}

func (e *ErrConfigParse) Unwrap() error {
	return e.Err
}

type ErrConfigValidation struct {
	Err error
}

func (e *ErrConfigValidation) Error() string {
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ErrConfigValidation) Unwrap() error {
	return e.Err
}

// Auth errors

// ErrPermanentAuth is returned when the token endpoint rejects the grant in a
// way that cannot self-resolve: a dead refresh token or misconfigured client
// credentials. Retrying would never succeed.
type ErrPermanentAuth struct {
	ErrorType string
}

func (e *ErrPermanentAuth) Error() string {
	return fmt.Sprintf("permanent auth failure: %s", e.ErrorType)
}

// IsPermanentAuth reports whether a provider error type rules out retry.
func IsPermanentAuth(errorType string) bool {
	return errorType == "invalid_grant" || errorType == "invalid_client"
}

type ErrTokenRefresh struct {
	Attempts int
	Err      error
}

func (e *ErrTokenRefresh) Error() string {
	return fmt.Sprintf("token refresh failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ErrTokenRefresh) Unwrap() error {
	return e.Err
}

// ErrUnauthorized marks a 401 from a metrics endpoint. The client refreshes
// once and retries; a second consecutive one surfaces to the caller.
type ErrUnauthorized struct {
	Endpoint string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Endpoint)
}

// Provider errors

type ErrMetricsFetch struct {
	Endpoint string
	Status   int
}

func (e *ErrMetricsFetch) Error() string {
	return fmt.Sprintf("metrics fetch %s returned status %d", e.Endpoint, e.Status)
}

// Destination errors

type ErrDestinationQuery struct {
	Err error
}

func (e *ErrDestinationQuery) Error() string {
	return fmt.Sprintf("destination query failed: %v", e.Err)
}

func (e *ErrDestinationQuery) Unwrap() error {
	return e.Err
}

// ErrRecordWrite carries the full outgoing payload so an operator can see
// exactly what the destination rejected.
type ErrRecordWrite struct {
	Date    string
	Payload string
	Err     error
}

func (e *ErrRecordWrite) Error() string {
	return fmt.Sprintf("record write for %s failed: %v (payload: %s)", e.Date, e.Err, e.Payload)
}

func (e *ErrRecordWrite) Unwrap() error {
	return e.Err
}
