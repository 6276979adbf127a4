// Package storage is the client's persisted key/value store: the terminal
// counterpart of browser local storage, shared by every client process that
// opens the same file.
package storage

import "context"

// Repository is a byte-valued key/value store. Get returns (nil, nil) for an
// absent key.
//
// Every mutation bumps a store-wide revision so other processes sharing the
// file can detect changes without diffing values.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all values or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Revision(ctx context.Context) (int64, error)
}
