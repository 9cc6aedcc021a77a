package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-api/internal/api/metrics"
	"github.com/openshelf/library-api/internal/core/domain"
	"github.com/openshelf/library-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) consulted on
// bulk catalog imports.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type CatalogService struct {
	repo   ports.BookRepository
	dedup  DedupChecker
	logger zerolog.Logger
}

func NewCatalogService(repo ports.BookRepository, dedup DedupChecker, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, dedup: dedup, logger: logger}
}

func (s *CatalogService) List(ctx context.Context) ([]ports.BookSummary, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toSummaries(books), nil
}

func (s *CatalogService) Get(ctx context.Context, isbn string) (*ports.BookSummary, error) {
	book, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	summary := toSummary(book)
	return &summary, nil
}

// Add bulk-inserts books. Validation covers the whole batch before any
// insert: one incomplete entry (or an empty batch) means nothing is
// written. Each book's ceiling is fixed to its initial quantity.
func (s *CatalogService) Add(ctx context.Context, inputs []ports.BookInput, idempotencyKey string) (int, error) {
	if len(inputs) == 0 {
		return 0, domain.ErrValidation
	}

	books := make([]*domain.Book, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if in.Title == "" || in.Author == "" || in.ISBN == "" || in.Price <= 0 || in.Quantity <= 0 {
			return 0, domain.ErrValidation
		}
		if _, dup := seen[in.ISBN]; dup {
			return 0, domain.ErrValidation
		}
		seen[in.ISBN] = struct{}{}
		books = append(books, &domain.Book{
			ISBN:        in.ISBN,
			Title:       in.Title,
			Author:      in.Author,
			Price:       in.Price,
			Quantity:    in.Quantity,
			MaxQuantity: in.Quantity,
		})
	}

	if idempotencyKey != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, idempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", idempotencyKey).Msg("dedup check failed, inserting anyway")
		} else if isDup {
			metrics.CatalogDedupTotal.WithLabelValues("hit").Inc()
			s.logger.Info().Str("key", idempotencyKey).Msg("duplicate import skipped")
			return 0, nil
		}
		metrics.CatalogDedupTotal.WithLabelValues("miss").Inc()
	}

	if err := s.repo.InsertMany(ctx, books); err != nil {
		return 0, err
	}

	if idempotencyKey != "" {
		if err := s.dedup.Mark(ctx, idempotencyKey); err != nil {
			s.logger.Warn().Err(err).Str("key", idempotencyKey).Msg("failed to set dedup key")
		}
	}

	metrics.CatalogMutationsTotal.WithLabelValues("add").Add(float64(len(books)))
	s.logger.Info().Int("count", len(books)).Msg("books added")
	return len(books), nil
}

// Update overwrites title, author, price, and quantity unconditionally.
// The ceiling is left untouched, matching the catalog contract.
func (s *CatalogService) Update(ctx context.Context, isbn string, fields ports.BookUpdate) error {
	if err := s.repo.Update(ctx, isbn, fields); err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("isbn", isbn).Msg("book updated")
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, isbn string) error {
	if err := s.repo.Delete(ctx, isbn); err != nil {
		return err
	}
	metrics.CatalogMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("isbn", isbn).Msg("book deleted")
	return nil
}

func toSummary(b *domain.Book) ports.BookSummary {
	return ports.BookSummary{
		Title:    b.Title,
		Author:   b.Author,
		ISBN:     b.ISBN,
		Price:    b.Price,
		Quantity: b.Quantity,
	}
}

func toSummaries(books []*domain.Book) []ports.BookSummary {
	out := make([]ports.BookSummary, 0, len(books))
	for _, b := range books {
		out = append(out, toSummary(b))
	}
	return out
}
