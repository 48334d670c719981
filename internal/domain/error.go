package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrQuotaExceeded      = errors.New("monthly scan limit reached")
	ErrUnknownProvider    = errors.New("unknown ai provider")
	ErrLockNotAcquired    = errors.New("could not acquire lock")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid sql execution context")
	ErrMailNotConfigured  = errors.New("smtp settings not configured")
)
