package server

import (
	"context"
	"errors"
	"time"

	"github.com/jhagedorn/wirecat/pkg/graphio"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a diagram does not exist.
	ErrNotFound = errors.New("not found")
)

// Record is a stored diagram with metadata.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Diagram   graphio.Diagram `json:"diagram" bson:"diagram"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, overwriting any existing record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record.
	// Returns ErrNotFound if the record doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}
