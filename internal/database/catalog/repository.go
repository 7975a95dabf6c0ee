// Package catalog provides database operations for authors and books.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	books, err := repo.ListBooks(ctx, catalog.ListQuery{Search: "notes"})
//	outcome, err := repo.DeleteBookCascade(ctx, bookID)
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/entities"
)

type SortField string

const (
	SortByTitle  SortField = "title"
	SortByAuthor SortField = "author"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ListQuery selects, filters and orders books for the listing page.
// Zero values mean title ascending without a search filter.
type ListQuery struct {
	Sort      SortField
	Direction Direction
	Search    string
}

// DeleteOutcome describes what a cascade delete removed.
type DeleteOutcome struct {
	Book          entities.Book
	RemovedAuthor *entities.Author // nil when the author still has books
}

// Repository handles all author and book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns books joined with their author, filtered and ordered by q.
func (r *Repository) ListBooks(ctx context.Context, q ListQuery) ([]entities.Book, error) {
	query := r.db.WithContext(ctx).Joins("Author")

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(books.title) LIKE ? ESCAPE '\' OR LOWER("Author".name) LIKE ? ESCAPE '\' OR CAST(books.isbn AS TEXT) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	column := clause.Column{Table: "books", Name: "title"}
	if q.Sort == SortByAuthor {
		column = clause.Column{Table: "Author", Name: "name"}
	}

	var books []entities.Book
	err := query.
		Order(clause.OrderByColumn{Column: column, Desc: q.Direction == Descending}).
		Order("books.id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// ListAuthors returns every author ordered by name.
func (r *Repository) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// GetAuthorByID returns ErrNotFound when no author has the id.
func (r *Repository) GetAuthorByID(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &author, nil
}

// CreateAuthor persists a new author; the store assigns the id.
func (r *Repository) CreateAuthor(ctx context.Context, author *entities.Author) error {
	author.ID = 0
	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		return fmt.Errorf("create author: %w", translateError(err))
	}
	return nil
}

// GetBookByID returns the book with its author, or ErrNotFound.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).Joins("Author").First(&book, "books.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &book, nil
}

// CreateBook persists a new book. A missing author surfaces as
// ErrForeignKeyViolation from the store.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	book.ID = 0
	if err := r.db.WithContext(ctx).Omit("Author").Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", translateError(err))
	}
	return nil
}

// FindBooksByAuthor returns the books written by an author, ordered by title.
func (r *Repository) FindBooksByAuthor(ctx context.Context, authorID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("title ASC, id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("find books by author: %w", err)
	}
	return books, nil
}

// CountBooksByAuthor counts the books still referencing an author.
func (r *Repository) CountBooksByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return countBooksByAuthor(r.db.WithContext(ctx), authorID)
}

// DeleteBookCascade deletes a book and, when it was the author's last one,
// the author as well. Both deletions and the count between them run in one
// transaction.
func (r *Repository) DeleteBookCascade(ctx context.Context, id uint) (*DeleteOutcome, error) {
	var outcome DeleteOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Joins("Author").First(&outcome.Book, "books.id = ?", id).Error; err != nil {
			return translateError(err)
		}

		if err := tx.Delete(&entities.Book{}, outcome.Book.ID).Error; err != nil {
			return fmt.Errorf("delete book: %w", translateError(err))
		}

		remaining, err := countBooksByAuthor(tx, outcome.Book.AuthorID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			res := tx.Model(&entities.Author{}).
				Where("id = ?", outcome.Book.AuthorID).
				Update("last_book_removed_at", time.Now())
			if res.Error != nil {
				return fmt.Errorf("mark author: %w", translateError(res.Error))
			}
			return nil
		}

		if err := tx.Delete(&entities.Author{}, outcome.Book.AuthorID).Error; err != nil {
			return fmt.Errorf("delete author: %w", translateError(err))
		}
		author := outcome.Book.Author
		outcome.RemovedAuthor = &author
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// DeleteOrphanAuthors removes authors who lost books and have none left, and
// returns how many were deleted. Authors that never had a book deleted are
// kept, so a newly added author waiting for their first book survives.
func (r *Repository) DeleteOrphanAuthors(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	result := db.
		Where("last_book_removed_at IS NOT NULL").
		Where("NOT EXISTS (?)", db.Model(&entities.Book{}).Select("1").Where("books.author_id = authors.id")).
		Delete(&entities.Author{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan authors: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Stats returns the total number of books and authors.
func (r *Repository) Stats(ctx context.Context) (totalBooks int64, totalAuthors int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&entities.Book{}).Count(&totalBooks).Error; err != nil {
		return
	}
	err = db.Model(&entities.Author{}).Count(&totalAuthors).Error
	return
}

func countBooksByAuthor(db *gorm.DB, authorID uint) (int64, error) {
	var count int64
	if err := db.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count books by author: %w", err)
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
