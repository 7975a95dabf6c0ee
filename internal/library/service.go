// Package library implements the catalog operations behind the web pages:
// listing books, adding authors and books, and deleting books together with
// authors left without any.
//
// Every operation takes a typed parameter struct that is validated here, at
// the boundary, before the store is touched. Problems with the input are
// returned as *ValidationError values whose field errors wrap one of
// ErrMissingRequiredField, ErrInvalidInput or ErrInvalidReference.
package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// Store is the data access the catalog operations need.
type Store interface {
	ListBooks(ctx context.Context, q catalog.ListQuery) ([]entities.Book, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	GetAuthorByID(ctx context.Context, id uint) (*entities.Author, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	CreateBook(ctx context.Context, book *entities.Book) error
	DeleteBookCascade(ctx context.Context, id uint) (*catalog.DeleteOutcome, error)
}

// Recorder receives a note of every successful mutation.
type Recorder interface {
	LogCreate(entityType string, entityID uint, entityName string)
	LogDelete(entityType string, entityID uint, entityName string, cascade bool)
}

type Service struct {
	store    Store
	recorder Recorder
}

// NewService creates the catalog service. recorder may be nil.
func NewService(store Store, recorder Recorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// ListBooks returns books with their authors for the listing page.
func (s *Service) ListBooks(ctx context.Context, params ListParams) ([]entities.Book, error) {
	return s.store.ListBooks(ctx, params.Query())
}

// Authors returns every author, for the add-book form.
func (s *Service) Authors(ctx context.Context) ([]entities.Author, error) {
	return s.store.ListAuthors(ctx)
}

// AddAuthor validates the form and persists a new author.
func (s *Service) AddAuthor(ctx context.Context, form AddAuthorForm) (*entities.Author, error) {
	author, err := form.Author()
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateAuthor(ctx, author); err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.LogCreate("author", author.ID, author.Name)
	}
	return author, nil
}

// AddBook validates the form, checks the author exists, and persists a new book.
func (s *Service) AddBook(ctx context.Context, form AddBookForm) (*entities.Book, error) {
	book, err := form.Book()
	if err != nil {
		return nil, err
	}

	author, err := s.store.GetAuthorByID(ctx, book.AuthorID)
	if catalog.IsNotFound(err) {
		return nil, unknownAuthor()
	}
	if err != nil {
		return nil, fmt.Errorf("look up author: %w", err)
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		// The author may have been removed since the lookup
		if errors.Is(err, catalog.ErrForeignKeyViolation) {
			return nil, errors.Join(unknownAuthor(), err)
		}
		return nil, err
	}
	book.Author = *author

	if s.recorder != nil {
		s.recorder.LogCreate("book", book.ID, book.Title)
	}
	return book, nil
}

// DeleteBook removes a book and, if it was their last one, its author.
// Returns ErrNotFound when the book does not exist.
func (s *Service) DeleteBook(ctx context.Context, id uint) (*catalog.DeleteOutcome, error) {
	outcome, err := s.store.DeleteBookCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.LogDelete("book", outcome.Book.ID, outcome.Book.Title, false)
		if outcome.RemovedAuthor != nil {
			s.recorder.LogDelete("author", outcome.RemovedAuthor.ID, outcome.RemovedAuthor.Name, true)
		}
	}
	return outcome, nil
}

// DeleteConfirmation is the message shown after a successful delete.
func DeleteConfirmation(outcome *catalog.DeleteOutcome) string {
	if outcome.RemovedAuthor != nil {
		return fmt.Sprintf("Book and author '%s' deleted.", outcome.RemovedAuthor.Name)
	}
	return "Book deleted successfully."
}

func unknownAuthor() error {
	return &ValidationError{Fields: []*FieldError{{
		Field:   "author_id",
		Kind:    ErrInvalidReference,
		Message: "The selected author does not exist.",
	}}}
}
