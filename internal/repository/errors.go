// Package repository implements data access over the Sakila-style MySQL
// schema. Sentinel errors defined here let higher layers distinguish
// failure scenarios without inspecting driver-specific errors: handlers
// translate ErrDuplicate into HTTP 409 and ErrNotFound into 404 or a flash
// message depending on context.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as registering a username or email that is already taken.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicate reports whether err is a MySQL unique-constraint violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
