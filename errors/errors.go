/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"context"
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrConnection is returned when a backend connection cannot be established or maintained
	ErrConnection = errors.New("backend connection failed")

	// ErrUnsupportedPolicyValue is returned when a consistency or indexing value is outside its enum
	ErrUnsupportedPolicyValue = errors.New("unsupported policy value")

	// ErrMissingPartitionKey is returned when a partitioned collection is addressed without a partition key
	ErrMissingPartitionKey = errors.New("missing partition key")

	// ErrNotFound is returned when the target database, collection or item does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a create collides with an existing item
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrBackendFailure is returned for any other non-success backend status
	ErrBackendFailure = errors.New("backend failure")

	// ErrCancelled is returned when the caller cancels an operation mid-flight
	ErrCancelled = errors.New("operation cancelled")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ConnectionError represents a failure to reach the backend at Endpoint
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection to %q failed", e.Endpoint)
	}
	return fmt.Sprintf("connection to %q failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// PolicyError represents an enum value that the policy mapper does not know
type PolicyError struct {
	Policy string
	Value  int
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s value(%d) is not supported", e.Policy, e.Value)
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrUnsupportedPolicyValue
}

// MissingPartitionKeyError is raised before any backend call when a partitioned
// collection is written to or deleted from without a partition key.
type MissingPartitionKeyError struct {
	DatabaseID   string
	CollectionID string
	ID           string
}

func (e *MissingPartitionKeyError) Error() string {
	return fmt.Sprintf("partition key required for item %q in %s/%s", e.ID, e.DatabaseID, e.CollectionID)
}

func (e *MissingPartitionKeyError) Is(target error) bool {
	return target == ErrMissingPartitionKey
}

// StatusError carries a non-success backend status. The code is preserved but
// not interpreted beyond the not-found / conflict / other split.
type StatusError struct {
	Op       string
	Resource string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	if e.Code == 0 && e.Err != nil {
		return fmt.Sprintf("%s %s: backend call failed: %v", e.Op, e.Resource, e.Err)
	}
	msg := fmt.Sprintf("%s %s: backend returned status %d", e.Op, e.Resource, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == 404
	case ErrAlreadyExists:
		return e.Code == 409
	case ErrBackendFailure:
		return e.Code != 404
	}
	return false
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// CancelledError wraps the context error that interrupted Op
type CancelledError struct {
	Op  string
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled: %v", e.Op, e.Err)
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewConnectionError creates a new ConnectionError
func NewConnectionError(endpoint string, err error) error {
	return &ConnectionError{Endpoint: endpoint, Err: err}
}

// NewPolicyError creates a new PolicyError
func NewPolicyError(policy string, value int) error {
	return &PolicyError{Policy: policy, Value: value}
}

// NewMissingPartitionKeyError creates a new MissingPartitionKeyError
func NewMissingPartitionKeyError(databaseID, collectionID, id string) error {
	return &MissingPartitionKeyError{DatabaseID: databaseID, CollectionID: collectionID, ID: id}
}

// NewStatusError creates a new StatusError
func NewStatusError(op, resource string, code int) error {
	return &StatusError{Op: op, Resource: resource, Code: code}
}

// NewCancelledError creates a new CancelledError
func NewCancelledError(op string, err error) error {
	return &CancelledError{Op: op, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FromTransport classifies a transport-level error returned by a backend call.
// Context errors become CancelledError, connection errors pass through and
// everything else is reported as a backend failure without a status code.
func FromTransport(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCancelledError(op, err)
	}
	if errors.Is(err, ErrConnection) || errors.Is(err, ErrCancelled) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedPolicyValue) || errors.Is(err, ErrMissingPartitionKey) {
		return err
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return err
	}
	return &StatusError{Op: op, Resource: resource, Err: err}
}

// IsConnection checks if an error is a connection error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsUnsupportedPolicyValue checks if an error is a policy mapping error
func IsUnsupportedPolicyValue(err error) bool {
	return errors.Is(err, ErrUnsupportedPolicyValue)
}

// IsMissingPartitionKey checks if an error is a missing partition key error
func IsMissingPartitionKey(err error) bool {
	return errors.Is(err, ErrMissingPartitionKey)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsBackendFailure checks if an error is a backend failure
func IsBackendFailure(err error) bool {
	return errors.Is(err, ErrBackendFailure)
}

// IsCancelled checks if an error is a cancellation
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
