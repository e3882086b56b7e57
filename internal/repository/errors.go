// Package repository implements the MySQL-backed stores used by the API:
// the account directory, the single-row-per-account token store and the
// geography lookup tables.  Callers distinguish "no such row" from storage
// failures with errors.Is(err, ErrNotFound).
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Handlers and the
// auth service translate it into a 404 (or a revoked token for the token
// store).
var ErrNotFound = errors.New("not found")
