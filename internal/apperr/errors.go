// Package apperr defines the error kinds surfaced by the use-case layer.
// Handlers map each kind to a status code; nothing in between translates them.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	if len(e.Rules) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Rules, ", ")
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// UnauthorizedError means the requester is known but does not own the entity.
type UnauthorizedError struct {
	Entity string
	ID     string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("not allowed to access %s %q", e.Entity, e.ID)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Validation(rules ...string) error {
	return &ValidationError{Rules: rules}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Unauthorized(entity, id string) error {
	return &UnauthorizedError{Entity: entity, ID: id}
}

// Persistence wraps a store failure. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
