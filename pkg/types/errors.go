package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrIOFailure        = errors.New("io failure")
	ErrSchemaMismatch   = errors.New("schema mismatch")
)

type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Is(target error) bool {
	if target == ErrInvalidParameter {
		return true
	}
	_, ok := target.(*ParameterError)
	return ok
}

type SchemaError struct {
	Dataset string
	Row     int
	Column  string
	Reason  string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("%s: row %d column %q: %s", e.Dataset, e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", e.Dataset, e.Row, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.Dataset, e.Column, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Dataset, e.Reason)
	}
}

func (e *SchemaError) Is(target error) bool {
	if target == ErrSchemaMismatch {
		return true
	}
	_, ok := target.(*SchemaError)
	return ok
}

// Positive returns a ParameterError unless v > 0.
func Positive(name string, v int) error {
	if v <= 0 {
		return &ParameterError{Name: name, Value: v, Reason: "must be positive"}
	}
	return nil
}
