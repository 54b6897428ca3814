// Package storage provides the durable key/value stores that back the
// client's persisted state (cart snapshot, session token, user profile).
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key/value store. Values are opaque blobs, usually JSON.
// Get returns ErrNotFound for missing keys; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type namespaced struct {
	prefix string
	store  Store
}

// Namespace scopes every key of store under prefix, so several profiles can
// share one backend.
func Namespace(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &namespaced{prefix: prefix + ":", store: store}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}
