package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/library-api/internal/core/domain"
	"github.com/openshelf/library-api/internal/core/ports"
)

const booksCollection = "books"

type BookRepository struct {
	coll *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{coll: db.Collection(booksCollection)}
}

type mongoBook struct {
	ISBN            string     `bson:"isbn"`
	Title           string     `bson:"title"`
	Author          string     `bson:"author"`
	Price           float64    `bson:"price"`
	Quantity        int        `bson:"quantity"`
	MaxQuantity     int        `bson:"max_quantity"`
	IssueDate       *time.Time `bson:"issue_date,omitempty"`
	ReturnDate      *time.Time `bson:"return_date,omitempty"`
	CurrentBorrower string     `bson:"current_borrower,omitempty"`
}

func toDomain(mb mongoBook) *domain.Book {
	return &domain.Book{
		ISBN:            mb.ISBN,
		Title:           mb.Title,
		Author:          mb.Author,
		Price:           mb.Price,
		Quantity:        mb.Quantity,
		MaxQuantity:     mb.MaxQuantity,
		IssueDate:       mb.IssueDate,
		ReturnDate:      mb.ReturnDate,
		CurrentBorrower: mb.CurrentBorrower,
	}
}

// InsertMany writes the batch all-or-nothing with respect to the unique
// isbn index: a batch containing an already-catalogued isbn is rejected
// up front so no subset of it lands in the collection.
func (r *BookRepository) InsertMany(ctx context.Context, books []*domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	isbns := make([]string, 0, len(books))
	docs := make([]interface{}, 0, len(books))
	for _, b := range books {
		isbns = append(isbns, b.ISBN)
		docs = append(docs, mongoBook{
			ISBN:        b.ISBN,
			Title:       b.Title,
			Author:      b.Author,
			Price:       b.Price,
			Quantity:    b.Quantity,
			MaxQuantity: b.MaxQuantity,
		})
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{"isbn": bson.M{"$in": isbns}})
	if err != nil {
		return fmt.Errorf("check existing books: %w", err)
	}
	if count > 0 {
		return domain.ErrBookExists
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		// A concurrent insert can still slip between the check and the
		// write; surface it as the same conflict.
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrBookExists
		}
		return fmt.Errorf("insert books: %w", err)
	}
	return nil
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBook
	if err := r.coll.FindOne(ctx, bson.M{"isbn": isbn}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return toDomain(mb), nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]*domain.Book, error) {
	return r.find(ctx, bson.M{})
}

// FindIssued returns every book with at least one outstanding copy.
// The quantity/max_quantity comparison happens server-side via $expr.
func (r *BookRepository) FindIssued(ctx context.Context) ([]*domain.Book, error) {
	return r.find(ctx, bson.M{
		"$expr": bson.M{"$lt": bson.A{"$quantity", "$max_quantity"}},
	})
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cur.Close(ctx)

	var books []*domain.Book
	for cur.Next(ctx) {
		var mb mongoBook
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, toDomain(mb))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// Update overwrites the mutable catalog fields. max_quantity is never
// part of the update document.
func (r *BookRepository) Update(ctx context.Context, isbn string, fields ports.BookUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"isbn": isbn}, bson.M{
		"$set": bson.M{
			"title":    fields.Title,
			"author":   fields.Author,
			"price":    fields.Price,
			"quantity": fields.Quantity,
		},
	})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Delete removes a book; absence is decided from the deletion outcome,
// not a pre-read.
func (r *BookRepository) Delete(ctx context.Context, isbn string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"isbn": isbn})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// IssueOne performs the decrement as a single conditional update: the
// filter only matches while quantity > 0, so two racing issues on the
// last copy resolve to exactly one winner.
func (r *BookRepository) IssueOne(ctx context.Context, isbn, borrower string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"isbn": isbn, "quantity": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"quantity": -1},
		"$set": bson.M{"issue_date": at.UTC(), "current_borrower": borrower},
	}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("issue book: %w", err)
	}
	return r.noMatchReason(ctx, isbn, domain.ErrOutOfStock)
}

// ReturnOne mirrors IssueOne with the opposite guard: the filter only
// matches while quantity is still below the ceiling.
func (r *BookRepository) ReturnOne(ctx context.Context, isbn string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"isbn":  isbn,
		"$expr": bson.M{"$lt": bson.A{"$quantity", "$max_quantity"}},
	}
	update := bson.M{
		"$inc":   bson.M{"quantity": 1},
		"$set":   bson.M{"return_date": at.UTC()},
		"$unset": bson.M{"current_borrower": ""},
	}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("return book: %w", err)
	}
	return r.noMatchReason(ctx, isbn, domain.ErrOverReturn)
}

// noMatchReason disambiguates a conditional update that matched nothing:
// either the book does not exist, or it exists and the guard blocked it.
func (r *BookRepository) noMatchReason(ctx context.Context, isbn string, guardErr error) error {
	err := r.coll.FindOne(ctx, bson.M{"isbn": isbn}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("find book: %w", err)
	}
	return guardErr
}

// EnsureIndexes creates the unique index on isbn, the catalog's
// business key.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
