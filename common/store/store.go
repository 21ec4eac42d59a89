package store

import (
	"context"
)

// Collection names used across services.
const (
	CollectionUsers          = "Users"
	CollectionPasswordResets = "PasswordResetRequests"
	CollectionContents       = "Contents"
)

// Document is a schemaless record as stored in a collection.
type Document = map[string]interface{}

// Filter selects documents by field equality. A field value may also be an
// operator document such as {"$lt": cutoff} for range conditions.
type Filter = map[string]interface{}

// Store is the document-store collaborator: filtered reads and writes over
// named collections. Implementations must make Update with upsert a single
// conditional write so concurrent upserts for the same filter never
// interleave partial state.
type Store interface {
	// Get returns every document matching the filter.
	Get(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// GetOne returns one matching document, or nil when nothing matches.
	GetOne(ctx context.Context, collection string, filter Filter) (Document, error)

	// Insert stores a new document and returns its id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Update patches the first document matching the filter. With upsert
	// set, a missing document is created from the filter's equality fields
	// plus the patch. Returns the number of documents affected.
	Update(ctx context.Context, collection string, filter Filter, patch Document, upsert bool) (int64, error)

	// Delete removes every document matching the filter and returns the
	// number removed.
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)
}
