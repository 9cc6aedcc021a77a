package ports

import (
	"context"
)

// BookInput is the DTO for a single entry of a bulk catalog import.
type BookInput struct {
	Title    string
	Author   string
	ISBN     string
	Price    float64
	Quantity int
}

// BookSummary is the public catalog view returned by read operations.
// Borrower bookkeeping fields are never exposed here.
type BookSummary struct {
	Title    string
	Author   string
	ISBN     string
	Price    float64
	Quantity int
}

// CatalogService defines CRUD use cases over the book catalog. Admin
// gating happens in the transport layer, not here.
type CatalogService interface {
	List(ctx context.Context) ([]BookSummary, error)
	Get(ctx context.Context, isbn string) (*BookSummary, error)
	// Add bulk-inserts books. The whole batch is validated before any
	// insert; one bad entry means nothing is written. A non-empty
	// idempotencyKey that was already seen inserts nothing and returns 0.
	Add(ctx context.Context, inputs []BookInput, idempotencyKey string) (int, error)
	Update(ctx context.Context, isbn string, fields BookUpdate) error
	Delete(ctx context.Context, isbn string) error
}
