package ports

import "context"

// CirculationService tracks the issue/return workflow. Quantity moves
// within [0, max_quantity]: Issue is the only decrementing transition,
// Return the only incrementing one.
type CirculationService interface {
	Issue(ctx context.Context, isbn, borrower string) error
	Return(ctx context.Context, isbn string) error
	// ListIssued returns every book currently below full stock.
	ListIssued(ctx context.Context) ([]BookSummary, error)
}
