package hearth

import "errors"

var (
	// ErrUnsupportedBackend is returned when a database backend identifier
	// is not one of the supported engines
	ErrUnsupportedBackend = errors.New("unsupported database backend")
	// ErrInvalidConfig is returned when configuration validation fails
	ErrInvalidConfig = errors.New("invalid configuration")
)
