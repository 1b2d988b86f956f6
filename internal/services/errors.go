package services

import "fmt"

// Service errors
var (
	ErrNoTablesSpecified = &ServiceError{Message: "no tables specified"}
	ErrInvalidSeedCount  = &ServiceError{Message: "count must be between 1 and 200"}
	ErrBaseURLNotSet     = &ServiceError{Message: "base_url not configured"}
	ErrSameUnit          = &ServiceError{Message: "cannot swap a unit with itself"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
