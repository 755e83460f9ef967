package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential store errors
	ErrStorageUnavailable = fmt.Errorf("credential storage unavailable")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API errors, one per failure category the gateway reports
	ErrNetworkFailure    = fmt.Errorf("network request failed")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrValidationFailed  = fmt.Errorf("validation failed")
	ErrServerFailure     = fmt.Errorf("server error")
	ErrMalformedResponse = fmt.Errorf("malformed response")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
