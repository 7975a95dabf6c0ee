package library

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/library/internal/config"
)

var fieldLabels = map[string]string{
	"name":             "Name",
	"birth_date":       "Birth date",
	"date_of_death":    "Date of death",
	"isbn":             "ISBN",
	"title":            "Title",
	"publication_year": "Publication year",
	"author_id":        "Author",
	"book_id":          "Book id",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func invalid(field, message string) *FieldError {
	return &FieldError{Field: field, Kind: ErrInvalidInput, Message: message}
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Kind: ErrMissingRequiredField, Message: label(field) + " is required."}
}

// ParseDate parses a required YYYY-MM-DD date.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, missing(field)
	}
	t, err := time.ParseInLocation(config.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, invalid(field, label(field)+" must be a date in YYYY-MM-DD format.")
	}
	return t, nil
}

// ParseOptionalDate parses a YYYY-MM-DD date, returning nil for blank input.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseInt parses a required base-10 integer.
func ParseInt(field, value string) (int, error) {
	n, err := parseInt(field, value, strconv.IntSize)
	return int(n), err
}

// ParseInt64 parses a required base-10 64-bit integer.
func ParseInt64(field, value string) (int64, error) {
	return parseInt(field, value, 64)
}

// ParseID parses a required positive record identifier.
func ParseID(field, value string) (uint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, missing(field)
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return 0, invalid(field, label(field)+" must be a positive whole number.")
	}
	return uint(id), nil
}

func parseInt(field, value string, bitSize int) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, missing(field)
	}
	n, err := strconv.ParseInt(value, 10, bitSize)
	if err != nil {
		return 0, invalid(field, label(field)+" must be a whole number.")
	}
	return n, nil
}
