package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/database/catalog"
)

func TestListParams_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		params   ListParams
		expected ListParams
	}{
		{"defaults", ListParams{}, ListParams{Sort: "title", Direction: "asc"}},
		{"author descending", ListParams{Sort: "author", Direction: "desc"}, ListParams{Sort: "author", Direction: "desc"}},
		{"unknown sort falls back to title", ListParams{Sort: "year"}, ListParams{Sort: "title", Direction: "asc"}},
		{"unknown direction falls back to asc", ListParams{Direction: "sideways"}, ListParams{Sort: "title", Direction: "asc"}},
		{"search is trimmed", ListParams{Search: "  notes \t"}, ListParams{Sort: "title", Direction: "asc", Search: "notes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.params.Normalize())
		})
	}
}

func TestListParams_Query(t *testing.T) {
	q := ListParams{Sort: "author", Direction: "desc", Search: " ada "}.Query()

	assert.Equal(t, catalog.SortByAuthor, q.Sort)
	assert.Equal(t, catalog.Descending, q.Direction)
	assert.Equal(t, "ada", q.Search)
}

func TestAddAuthorForm_Author(t *testing.T) {
	t.Run("valid with date of death", func(t *testing.T) {
		form := AddAuthorForm{Name: " Ada Lovelace ", BirthDate: "1815-12-10", DateOfDeath: "1852-11-27"}

		author, err := form.Author()

		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", author.Name)
		assert.Equal(t, "1815-12-10", author.BirthDate.Format("2006-01-02"))
		require.NotNil(t, author.DateOfDeath)
		assert.Equal(t, "1852-11-27", author.DateOfDeath.Format("2006-01-02"))
	})

	t.Run("blank date of death is nil", func(t *testing.T) {
		author, err := AddAuthorForm{Name: "Living Writer", BirthDate: "1980-01-01"}.Author()

		require.NoError(t, err)
		assert.Nil(t, author.DateOfDeath)
		assert.True(t, author.IsLiving())
	})

	t.Run("missing birth date", func(t *testing.T) {
		_, err := AddAuthorForm{Name: "Ada Lovelace"}.Author()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingRequiredField)
		assert.Equal(t, "Birth date is required.", UserMessage(err))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.NotNil(t, verr.Field("birth_date"))
		assert.Nil(t, verr.Field("name"))
	})

	t.Run("whitespace birth date counts as missing", func(t *testing.T) {
		_, err := AddAuthorForm{Name: "Ada Lovelace", BirthDate: "   "}.Author()

		assert.ErrorIs(t, err, ErrMissingRequiredField)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := AddAuthorForm{BirthDate: "1815-12-10"}.Author()

		assert.ErrorIs(t, err, ErrMissingRequiredField)
		assert.Equal(t, "Name is required.", UserMessage(err))
	})

	t.Run("malformed birth date", func(t *testing.T) {
		_, err := AddAuthorForm{Name: "Ada", BirthDate: "10/12/1815"}.Author()

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.NotErrorIs(t, err, ErrMissingRequiredField)
		assert.Equal(t, "Birth date must be a date in YYYY-MM-DD format.", UserMessage(err))
	})

	t.Run("malformed date of death", func(t *testing.T) {
		_, err := AddAuthorForm{Name: "Ada", BirthDate: "1815-12-10", DateOfDeath: "1852-13-40"}.Author()

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("death before birth", func(t *testing.T) {
		_, err := AddAuthorForm{Name: "Ada", BirthDate: "1815-12-10", DateOfDeath: "1800-01-01"}.Author()

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, "Date of death cannot be before the birth date.", UserMessage(err))
	})

	t.Run("birth date reported before name", func(t *testing.T) {
		_, err := AddAuthorForm{}.Author()

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 2)
		assert.Equal(t, "birth_date", verr.Fields[0].Field)
		assert.Equal(t, "name", verr.Fields[1].Field)
	})
}

func TestAddBookForm_Book(t *testing.T) {
	valid := AddBookForm{ISBN: "1234567890", Title: "Notes", PublicationYear: "1843", AuthorID: "7"}

	t.Run("valid", func(t *testing.T) {
		book, err := valid.Book()

		require.NoError(t, err)
		assert.Equal(t, int64(1234567890), book.ISBN)
		assert.Equal(t, "Notes", book.Title)
		assert.Equal(t, 1843, book.PublicationYear)
		assert.Equal(t, uint(7), book.AuthorID)
	})

	tests := []struct {
		name    string
		mutate  func(f *AddBookForm)
		field   string
		kind    error
		message string
	}{
		{"missing title", func(f *AddBookForm) { f.Title = "" }, "title", ErrMissingRequiredField, "Title is required."},
		{"missing isbn", func(f *AddBookForm) { f.ISBN = " " }, "isbn", ErrMissingRequiredField, "ISBN is required."},
		{"missing year", func(f *AddBookForm) { f.PublicationYear = "" }, "publication_year", ErrMissingRequiredField, "Publication year is required."},
		{"missing author", func(f *AddBookForm) { f.AuthorID = "" }, "author_id", ErrMissingRequiredField, "Author is required."},
		{"non-numeric isbn", func(f *AddBookForm) { f.ISBN = "12-34" }, "isbn", ErrInvalidInput, "ISBN must contain digits only."},
		{"non-numeric year", func(f *AddBookForm) { f.PublicationYear = "eighteen" }, "publication_year", ErrInvalidInput, "Publication year must be a whole number."},
		{"non-numeric author", func(f *AddBookForm) { f.AuthorID = "ada" }, "author_id", ErrInvalidInput, "Author must be selected from the list."},
		{"zero author id", func(f *AddBookForm) { f.AuthorID = "0" }, "author_id", ErrInvalidInput, "Author must be a positive whole number."},
		{"isbn overflow", func(f *AddBookForm) { f.ISBN = "99999999999999999999999" }, "isbn", ErrInvalidInput, "ISBN must be a whole number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			book, err := form.Book()

			assert.Nil(t, book)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, UserMessage(err))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotNil(t, verr.Field(tt.field))
		})
	}
}

func TestParseHelpers(t *testing.T) {
	t.Run("ParseDate", func(t *testing.T) {
		d, err := ParseDate("birth_date", "1843-01-01")
		require.NoError(t, err)
		assert.Equal(t, 1843, d.Year())

		_, err = ParseDate("birth_date", "")
		assert.ErrorIs(t, err, ErrMissingRequiredField)

		_, err = ParseDate("birth_date", "yesterday")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ParseOptionalDate", func(t *testing.T) {
		d, err := ParseOptionalDate("date_of_death", " ")
		assert.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("ParseID", func(t *testing.T) {
		id, err := ParseID("book_id", "42")
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)

		_, err = ParseID("book_id", "-1")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ParseInt", func(t *testing.T) {
		n, err := ParseInt("publication_year", " 1843 ")
		require.NoError(t, err)
		assert.Equal(t, 1843, n)

		_, err = ParseInt("publication_year", "1843.5")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Not found.", UserMessage(ErrNotFound))
	assert.Equal(t, "The record could not be saved.", UserMessage(ErrConstraintViolation))
	assert.Equal(t, "Something went wrong.", UserMessage(errors.New("boom")))
}
