// Package store provides persistence backends for named map documents.
//
// This package defines the Store interface with implementations for
// different deployments:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a directory for local single-user use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable server deployments
//
// All backends key documents by map name; names are validated before
// touching the backend so a hostile name can never escape a key prefix
// or directory.
package store

import (
	"context"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
)

// Store is the interface for document storage backends.
type Store interface {
	// Load retrieves the document stored under name.
	// Returns an ErrCodeDocumentNotFound error when no such map exists.
	Load(ctx context.Context, name string) (document.Document, error)

	// Save stores the document under name, overwriting any previous
	// version.
	Save(ctx context.Context, name string, doc document.Document) error

	// List returns the names of all stored maps in unspecified order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the map. Deleting an absent map is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "map %q not found", name)
}
