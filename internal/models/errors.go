package models

import "errors"

// Storage-level sentinels shared by every repository implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)
