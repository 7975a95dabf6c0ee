package library

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// ListParams are the query parameters of the listing page.
type ListParams struct {
	Sort      string `form:"sort"`
	Direction string `form:"direction"`
	Search    string `form:"search"`
}

// Normalize applies defaults: unknown sort means title, unknown direction
// means ascending, and the search text is trimmed.
func (p ListParams) Normalize() ListParams {
	out := ListParams{
		Sort:      string(catalog.SortByTitle),
		Direction: string(catalog.Ascending),
		Search:    strings.TrimSpace(p.Search),
	}
	if p.Sort == string(catalog.SortByAuthor) {
		out.Sort = p.Sort
	}
	if p.Direction == string(catalog.Descending) {
		out.Direction = p.Direction
	}
	return out
}

// Query converts the parameters into a data access query.
func (p ListParams) Query() catalog.ListQuery {
	n := p.Normalize()
	return catalog.ListQuery{
		Sort:      catalog.SortField(n.Sort),
		Direction: catalog.Direction(n.Direction),
		Search:    n.Search,
	}
}

// AddAuthorForm holds the submitted author fields.
type AddAuthorForm struct {
	Name        string `form:"name" json:"name"`
	BirthDate   string `form:"birth_date" json:"birth_date"`
	DateOfDeath string `form:"date_of_death" json:"date_of_death"`
}

var authorFieldOrder = []string{"birth_date", "name", "date_of_death"}

func (f AddAuthorForm) trimmed() AddAuthorForm {
	return AddAuthorForm{
		Name:        strings.TrimSpace(f.Name),
		BirthDate:   strings.TrimSpace(f.BirthDate),
		DateOfDeath: strings.TrimSpace(f.DateOfDeath),
	}
}

// Validate checks presence and format of every field without touching the store.
func (f AddAuthorForm) Validate() error {
	f = f.trimmed()
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error("Name is required."),
			validation.RuneLength(1, 100).Error("Name must be at most 100 characters."),
		),
		validation.Field(&f.BirthDate,
			validation.Required.Error("Birth date is required."),
			validation.Date(config.DateLayout).Error("Birth date must be a date in YYYY-MM-DD format."),
		),
		validation.Field(&f.DateOfDeath,
			validation.Date(config.DateLayout).Error("Date of death must be a date in YYYY-MM-DD format."),
		),
	)
	return toValidationError(err, authorFieldOrder)
}

// Author validates the form and builds the author to persist.
func (f AddAuthorForm) Author() (*entities.Author, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.trimmed()

	birth, err := ParseDate("birth_date", f.BirthDate)
	if err != nil {
		return nil, wrapField(err)
	}
	death, err := ParseOptionalDate("date_of_death", f.DateOfDeath)
	if err != nil {
		return nil, wrapField(err)
	}
	if death != nil && death.Before(birth) {
		return nil, wrapField(invalid("date_of_death", "Date of death cannot be before the birth date."))
	}

	return &entities.Author{
		Name:        f.Name,
		BirthDate:   birth,
		DateOfDeath: death,
	}, nil
}

// AddBookForm holds the submitted book fields.
type AddBookForm struct {
	ISBN            string `form:"isbn" json:"isbn"`
	Title           string `form:"title" json:"title"`
	PublicationYear string `form:"publication_year" json:"publication_year"`
	AuthorID        string `form:"author_id" json:"author_id"`
}

var bookFieldOrder = []string{"title", "isbn", "publication_year", "author_id"}

func (f AddBookForm) trimmed() AddBookForm {
	return AddBookForm{
		ISBN:            strings.TrimSpace(f.ISBN),
		Title:           strings.TrimSpace(f.Title),
		PublicationYear: strings.TrimSpace(f.PublicationYear),
		AuthorID:        strings.TrimSpace(f.AuthorID),
	}
}

// Validate checks presence and format of every field without touching the store.
func (f AddBookForm) Validate() error {
	f = f.trimmed()
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("Title is required."),
			validation.RuneLength(1, 100).Error("Title must be at most 100 characters."),
		),
		validation.Field(&f.ISBN,
			validation.Required.Error("ISBN is required."),
			is.Digit.Error("ISBN must contain digits only."),
		),
		validation.Field(&f.PublicationYear,
			validation.Required.Error("Publication year is required."),
			is.Int.Error("Publication year must be a whole number."),
		),
		validation.Field(&f.AuthorID,
			validation.Required.Error("Author is required."),
			is.Digit.Error("Author must be selected from the list."),
		),
	)
	return toValidationError(err, bookFieldOrder)
}

// Book validates the form and builds the book to persist. The author reference
// is not checked here.
func (f AddBookForm) Book() (*entities.Book, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.trimmed()

	isbn, err := ParseInt64("isbn", f.ISBN)
	if err != nil {
		return nil, wrapField(err)
	}
	year, err := ParseInt("publication_year", f.PublicationYear)
	if err != nil {
		return nil, wrapField(err)
	}
	authorID, err := ParseID("author_id", f.AuthorID)
	if err != nil {
		return nil, wrapField(err)
	}

	return &entities.Book{
		ISBN:            isbn,
		Title:           f.Title,
		PublicationYear: year,
		AuthorID:        authorID,
	}, nil
}

// toValidationError converts ozzo-validation errors into field errors in a
// stable order.
func toValidationError(err error, order []string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	verr := &ValidationError{}
	for _, field := range order {
		fieldErr, ok := errs[field]
		if !ok || fieldErr == nil {
			continue
		}
		kind := ErrInvalidInput
		var ve validation.Error
		if errors.As(fieldErr, &ve) && ve.Code() == validation.ErrRequired.Code() {
			kind = ErrMissingRequiredField
		}
		verr.Fields = append(verr.Fields, &FieldError{Field: field, Kind: kind, Message: fieldErr.Error()})
	}
	if len(verr.Fields) == 0 {
		return err
	}
	return verr
}

func wrapField(err error) error {
	var ferr *FieldError
	if errors.As(err, &ferr) {
		return &ValidationError{Fields: []*FieldError{ferr}}
	}
	return err
}
