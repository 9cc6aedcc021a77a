package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-api/internal/core/domain"
	"github.com/openshelf/library-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubBookRepo mirrors the real Mongo repository's semantics, including
// the atomic conditional guards on IssueOne/ReturnOne. The mutex makes
// those two genuinely atomic so the race test exercises the contract.
type stubBookRepo struct {
	mu    sync.Mutex
	books map[string]*domain.Book
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func cloneBook(b *domain.Book) *domain.Book {
	clone := *b
	return &clone
}

func (r *stubBookRepo) InsertMany(_ context.Context, books []*domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range books {
		if _, exists := r.books[b.ISBN]; exists {
			return domain.ErrBookExists
		}
	}
	for _, b := range books {
		r.books[b.ISBN] = cloneBook(b)
	}
	return nil
}

func (r *stubBookRepo) FindByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (r *stubBookRepo) FindAll(_ context.Context) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, b := range r.books {
		out = append(out, cloneBook(b))
	}
	return out, nil
}

func (r *stubBookRepo) FindIssued(_ context.Context) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, b := range r.books {
		if b.Quantity < b.MaxQuantity {
			out = append(out, cloneBook(b))
		}
	}
	return out, nil
}

func (r *stubBookRepo) Update(_ context.Context, isbn string, fields ports.BookUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return domain.ErrBookNotFound
	}
	b.Title = fields.Title
	b.Author = fields.Author
	b.Price = fields.Price
	b.Quantity = fields.Quantity
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[isbn]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, isbn)
	return nil
}

func (r *stubBookRepo) IssueOne(_ context.Context, isbn, borrower string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.Quantity <= 0 {
		return domain.ErrOutOfStock
	}
	b.Quantity--
	ts := at
	b.IssueDate = &ts
	b.CurrentBorrower = borrower
	return nil
}

func (r *stubBookRepo) ReturnOne(_ context.Context, isbn string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.Quantity >= b.MaxQuantity {
		return domain.ErrOverReturn
	}
	b.Quantity++
	ts := at
	b.ReturnDate = &ts
	b.CurrentBorrower = ""
	return nil
}

// stubDedup records marks in memory.
type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, key string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[key], nil
}

func (d *stubDedup) Mark(_ context.Context, key string) error {
	d.seen[key] = true
	return nil
}

func newTestCatalogService(repo *stubBookRepo, dedup *stubDedup) *CatalogService {
	return NewCatalogService(repo, dedup, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func validInputs() []ports.BookInput {
	return []ports.BookInput{
		{Title: "T1", Author: "A1", ISBN: "111", Price: 10, Quantity: 2},
		{Title: "T2", Author: "A2", ISBN: "222", Price: 15, Quantity: 1},
	}
}

func TestCatalogService_Add_SetsCeiling(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	count, err := svc.Add(context.Background(), validInputs(), "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 inserted, got %d", count)
	}

	b, err := repo.FindByISBN(context.Background(), "111")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if b.MaxQuantity != 2 || b.Quantity != 2 {
		t.Fatalf("expected quantity=max_quantity=2, got %d/%d", b.Quantity, b.MaxQuantity)
	}
}

func TestCatalogService_Add_EmptyBatch(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	if _, err := svc.Add(context.Background(), nil, ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.books) != 0 {
		t.Fatalf("expected zero inserts, got %d", len(repo.books))
	}
}

func TestCatalogService_Add_OneBadEntryInsertsNothing(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	inputs := append(validInputs(), ports.BookInput{Title: "T3", ISBN: "333", Price: 5, Quantity: 1}) // missing author
	if _, err := svc.Add(context.Background(), inputs, ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.books) != 0 {
		t.Fatalf("expected zero inserts on partial failure, got %d", len(repo.books))
	}
}

func TestCatalogService_Add_ExistingISBNInsertsNothing(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	if _, err := svc.Add(context.Background(), validInputs(), ""); err != nil {
		t.Fatalf("seed add failed: %v", err)
	}

	// Re-posting an already-catalogued isbn rejects the whole batch,
	// including the entries that would have been new.
	inputs := []ports.BookInput{
		{Title: "T3", Author: "A3", ISBN: "333", Price: 5, Quantity: 1},
		{Title: "T1", Author: "A1", ISBN: "111", Price: 10, Quantity: 2},
	}
	if _, err := svc.Add(context.Background(), inputs, ""); err != domain.ErrBookExists {
		t.Fatalf("expected ErrBookExists, got %v", err)
	}
	if len(repo.books) != 2 {
		t.Fatalf("expected no partial insert, got %d books", len(repo.books))
	}
	if _, err := repo.FindByISBN(context.Background(), "333"); err != domain.ErrBookNotFound {
		t.Fatalf("expected 333 to be absent, got %v", err)
	}
}

func TestCatalogService_Add_DuplicateISBNWithinBatch(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	inputs := []ports.BookInput{
		{Title: "T1", Author: "A1", ISBN: "111", Price: 10, Quantity: 2},
		{Title: "T1 again", Author: "A1", ISBN: "111", Price: 10, Quantity: 2},
	}
	if _, err := svc.Add(context.Background(), inputs, ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.books) != 0 {
		t.Fatalf("expected zero inserts, got %d", len(repo.books))
	}
}

func TestCatalogService_Add_IdempotentReplay(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	if _, err := svc.Add(context.Background(), validInputs(), "import-1"); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	count, err := svc.Add(context.Background(), validInputs(), "import-1")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected replay to insert nothing, got %d", count)
	}
	if len(repo.books) != 2 {
		t.Fatalf("expected 2 books after replay, got %d", len(repo.books))
	}
}

func TestCatalogService_Add_DedupFailureInsertsAnyway(t *testing.T) {
	repo := newStubBookRepo()
	dedup := newStubDedup()
	dedup.checkErr = context.DeadlineExceeded
	svc := newTestCatalogService(repo, dedup)

	count, err := svc.Add(context.Background(), validInputs(), "import-2")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected insert despite dedup failure, got %d", count)
	}
}

func TestCatalogService_Get_NotFound(t *testing.T) {
	svc := newTestCatalogService(newStubBookRepo(), newStubDedup())

	if _, err := svc.Get(context.Background(), "missing"); err != domain.ErrBookNotFound {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestCatalogService_Update_LeavesCeilingAlone(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	_, _ = svc.Add(context.Background(), validInputs(), "")

	err := svc.Update(context.Background(), "111", ports.BookUpdate{Title: "New", Author: "A1", Price: 20, Quantity: 5})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	b, _ := repo.FindByISBN(context.Background(), "111")
	if b.Title != "New" || b.Price != 20 || b.Quantity != 5 {
		t.Fatalf("unexpected fields after update: %+v", b)
	}
	if b.MaxQuantity != 2 {
		t.Fatalf("update must not recompute max_quantity, got %d", b.MaxQuantity)
	}
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	svc := newTestCatalogService(newStubBookRepo(), newStubDedup())

	err := svc.Update(context.Background(), "missing", ports.BookUpdate{Title: "T", Author: "A", Price: 1, Quantity: 1})
	if err != domain.ErrBookNotFound {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestCatalogService_Delete(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	if err := svc.Delete(context.Background(), "missing"); err != domain.ErrBookNotFound {
		t.Fatalf("expected ErrBookNotFound for absent isbn, got %v", err)
	}

	_, _ = svc.Add(context.Background(), validInputs(), "")
	if err := svc.Delete(context.Background(), "111"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), "111"); err != domain.ErrBookNotFound {
		t.Fatalf("expected get after delete to report not found, got %v", err)
	}
}

func TestCatalogService_List_PublicFieldsOnly(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestCatalogService(repo, newStubDedup())

	_, _ = svc.Add(context.Background(), validInputs(), "")

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.Title == "" || s.Author == "" || s.ISBN == "" {
			t.Fatalf("incomplete summary: %+v", s)
		}
	}
}
