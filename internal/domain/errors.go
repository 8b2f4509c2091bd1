package domain

import (
	"errors"
)

// Base error types for the pipeline. Callers wrap these with fmt.Errorf
// ("...: %w") and branch with errors.Is.
var (
	// ErrGeneration is returned when the text generator is unreachable or
	// errored (network, quota, service failure).
	ErrGeneration = errors.New("text generation failed")

	// ErrParse is returned when generator output is not in the expected
	// structural shape (JSON object or classification label).
	ErrParse = errors.New("generator output not parseable")

	// ErrScopingViolation is returned when a query reaches the scoper
	// without a recognizable transactions target. Such a query must never
	// execute.
	ErrScopingViolation = errors.New("query has no scopable transactions target")

	// ErrStorage is returned on persistence or query execution failure.
	ErrStorage = errors.New("storage operation failed")
)
