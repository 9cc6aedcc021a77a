package ports

import (
	"context"
	"time"

	"github.com/openshelf/library-api/internal/core/domain"
)

// BookUpdate carries the fields overwritten by a catalog update.
// MaxQuantity is intentionally absent: the ceiling is fixed at creation.
type BookUpdate struct {
	Title    string
	Author   string
	Price    float64
	Quantity int
}

// BookRepository defines persistence operations for the book catalog.
//
// IssueOne and ReturnOne must be implemented as a single atomic
// conditional update so that two racing calls on the same copy cannot
// both succeed; a separate read followed by a write is not acceptable.
type BookRepository interface {
	InsertMany(ctx context.Context, books []*domain.Book) error
	FindByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	FindAll(ctx context.Context) ([]*domain.Book, error)
	// FindIssued returns every book with at least one outstanding copy
	// (quantity < max_quantity).
	FindIssued(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, isbn string, fields BookUpdate) error
	Delete(ctx context.Context, isbn string) error
	// IssueOne decrements quantity by one iff quantity > 0, stamping the
	// issue date and borrower. Returns ErrBookNotFound or ErrOutOfStock.
	IssueOne(ctx context.Context, isbn, borrower string, at time.Time) error
	// ReturnOne increments quantity by one iff quantity < max_quantity,
	// stamping the return date and clearing the borrower. Returns
	// ErrBookNotFound or ErrOverReturn.
	ReturnOne(ctx context.Context, isbn string, at time.Time) error
}
