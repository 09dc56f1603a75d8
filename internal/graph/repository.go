package graph

import (
	"context"

	"leangraph/internal/decl"
)

// Repository provides persistent storage for declaration libraries and
// their dependency edges.
type Repository interface {
	// StoreLibrary persists a library's declarations and use edges.
	StoreLibrary(ctx context.Context, lib *decl.Library) error
	// LoadLibrary retrieves a library by name, use-sets included.
	LoadLibrary(ctx context.Context, name string) (*decl.Library, error)
	// QueryUsers returns the names of declarations whose definition or
	// proof uses the given declaration.
	QueryUsers(ctx context.Context, name string) ([]string, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
