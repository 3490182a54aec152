// Package metadata stores small key/value records of the client (the saved
// credential and its timestamp) in the local SQLite database.
package metadata

import (
	"context"
	"time"
)

// Record is one stored value with the moment it was last written.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Repository reads and writes metadata records.
type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) (Record, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}
