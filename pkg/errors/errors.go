// Package errors provides custom error types for the pawprint
// reconciliation engine. These errors enable programmatic error checking
// and keep the failure taxonomy of the pipeline explicit: what is
// recoverable, what blocks promotion, and what refuses a run outright.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the reconciliation pipeline
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAliasUnresolved indicates that no alias matched a raw brand.
	// Recoverable: the product is still published with low confidence.
	ErrAliasUnresolved = errors.New("brand alias unresolved")

	// ErrKeyCollision indicates that one product key covers records
	// whose names are too dissimilar to auto-merge
	ErrKeyCollision = errors.New("product key collision")

	// ErrGuardViolation indicates that a guard rule found violations.
	// Fatal to promotion, not to the pipeline.
	ErrGuardViolation = errors.New("guard violation")

	// ErrOverrideConflict indicates an override references a product
	// key that no longer exists after re-keying
	ErrOverrideConflict = errors.New("override conflict")

	// ErrLeaseHeld indicates another reconciliation run owns the lease
	// for the snapshot target
	ErrLeaseHeld = errors.New("reconciliation lease held")

	// ErrCanceled indicates that a run was canceled before publishing
	ErrCanceled = errors.New("run canceled")

	// ErrReadOnly indicates an attempt to modify a read-only store
	ErrReadOnly = errors.New("read only")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// AliasError represents an unresolved brand alias. The engine publishes
// the product anyway, with the raw brand and low confidence.
type AliasError struct {
	BrandRaw string
	Source   string
}

// Error implements the error interface
func (e *AliasError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("no alias matches brand %q (source %s)", e.BrandRaw, e.Source)
	}
	return fmt.Sprintf("no alias matches brand %q", e.BrandRaw)
}

// Is implements errors.Is support
func (e *AliasError) Is(target error) bool {
	return target == ErrAliasUnresolved
}

// KeyCollisionError represents a product key shared by records whose
// fuzzy name similarity falls below the review threshold. The engine
// keeps the records separate under suffixed keys pending manual review.
type KeyCollisionError struct {
	Key        string
	Sources    []string
	Similarity float64
}

// Error implements the error interface
func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("key %s collides across sources %v (similarity %.2f)", e.Key, e.Sources, e.Similarity)
}

// Is implements errors.Is support
func (e *KeyCollisionError) Is(target error) bool {
	return target == ErrKeyCollision
}

// GuardError represents a guard rule reporting one or more violations.
type GuardError struct {
	Guard      string
	Violations int
}

// Error implements the error interface
func (e *GuardError) Error() string {
	return fmt.Sprintf("guard %s reported %d violations", e.Guard, e.Violations)
}

// Is implements errors.Is support
func (e *GuardError) Is(target error) bool {
	return target == ErrGuardViolation
}

// OverrideError represents an override that could not be applied.
type OverrideError struct {
	Key    string
	Reason string
}

// Error implements the error interface
func (e *OverrideError) Error() string {
	return fmt.Sprintf("override for %s skipped: %s", e.Key, e.Reason)
}

// Is implements errors.Is support
func (e *OverrideError) Is(target error) bool {
	return target == ErrOverrideConflict
}

// LeaseError represents a refused run start because the lease is held.
type LeaseError struct {
	Path  string
	Owner string
}

// Error implements the error interface
func (e *LeaseError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("lease at %s held by run %s", e.Path, e.Owner)
	}
	return fmt.Sprintf("lease at %s already held", e.Path)
}

// Is implements errors.Is support
func (e *LeaseError) Is(target error) bool {
	return target == ErrLeaseHeld
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// SnapshotError represents an error during snapshot staging or publish
type SnapshotError struct {
	Stage   string // "stage", "swap", "load"
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s failed for %s: %s", e.Stage, e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAliasUnresolved checks if an error is an unresolved alias error
func IsAliasUnresolved(err error) bool {
	return errors.Is(err, ErrAliasUnresolved)
}

// IsKeyCollision checks if an error is a key collision error
func IsKeyCollision(err error) bool {
	return errors.Is(err, ErrKeyCollision)
}

// IsGuardViolation checks if an error is a guard violation
func IsGuardViolation(err error) bool {
	return errors.Is(err, ErrGuardViolation)
}

// IsLeaseHeld checks if an error is a refused run start
func IsLeaseHeld(err error) bool {
	return errors.Is(err, ErrLeaseHeld)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
