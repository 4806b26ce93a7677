package llm

import (
	"errors"
	"fmt"
)

// ServiceCallError means the model service errored or timed out
type ServiceCallError struct {
	Provider string
	Op       string
	Cause    error
}

func (e *ServiceCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s call failed (%s): %v", e.Provider, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s call failed (%s)", e.Provider, e.Op)
}

func (e *ServiceCallError) Unwrap() error {
	return e.Cause
}

// ParseError means a reply arrived but was not in the expected shape
type ParseError struct {
	Shape string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse %s: %v", e.Shape, e.Cause)
	}
	return fmt.Sprintf("parse %s: unexpected response shape", e.Shape)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsServiceCallError reports whether err wraps a ServiceCallError
func IsServiceCallError(err error) bool {
	var sce *ServiceCallError
	return errors.As(err, &sce)
}

// IsParseError reports whether err wraps a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
