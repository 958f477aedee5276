package contract

import "errors"

// ErrDuplicateKey is returned by Create when a unique constraint rejects the
// row. Callers decide whether that means "already exists" or Conflict.
var ErrDuplicateKey = errors.New("duplicate key")
