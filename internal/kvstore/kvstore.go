// Package kvstore provides the opaque key-value contract the aggregates
// are persisted through: string keys, string values, and absence as a
// normal (non-error) answer.
package kvstore

import "context"

type Store interface {
	// Get returns the stored value. ok is false when the key is absent;
	// absence is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
