package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-api/internal/api/metrics"
	"github.com/openshelf/library-api/internal/core/ports"
)

// CirculationService implements the issue/return workflow. Both
// transitions are delegated to the repository as atomic conditional
// updates, so two racing issues on the last copy cannot both succeed.
type CirculationService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
}

func NewCirculationService(repo ports.BookRepository, logger zerolog.Logger) *CirculationService {
	return &CirculationService{repo: repo, logger: logger}
}

func (s *CirculationService) Issue(ctx context.Context, isbn, borrower string) error {
	if err := s.repo.IssueOne(ctx, isbn, borrower, time.Now().UTC()); err != nil {
		return err
	}
	metrics.BooksIssuedTotal.Inc()
	s.logger.Info().Str("isbn", isbn).Str("borrower", borrower).Msg("book issued")
	return nil
}

func (s *CirculationService) Return(ctx context.Context, isbn string) error {
	if err := s.repo.ReturnOne(ctx, isbn, time.Now().UTC()); err != nil {
		return err
	}
	metrics.BooksReturnedTotal.Inc()
	s.logger.Info().Str("isbn", isbn).Msg("book returned")
	return nil
}

func (s *CirculationService) ListIssued(ctx context.Context) ([]ports.BookSummary, error) {
	books, err := s.repo.FindIssued(ctx)
	if err != nil {
		return nil, err
	}
	return toSummaries(books), nil
}
