package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional write matched no row because
// another request changed it between our read and our write.
var ErrConflict = errors.New("row changed concurrently")
