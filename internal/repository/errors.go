// Package repository implements the MySQL persistence layer. Sentinel
// errors defined here let handlers distinguish failure scenarios without
// inspecting driver error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a uniqueness
// constraint, such as creating a feature whose name is already taken.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether the error is a MySQL duplicate-key
// violation (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
