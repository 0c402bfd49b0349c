// Package storage declares the error vocabulary shared by all storage
// backends. Services match on these sentinels with errors.Is and never see
// driver-level errors.
package storage

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token already exists")

	// Geo reference entities share one not-found/conflict pair.
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")

	ErrCacheMiss = errors.New("cache miss")
)
