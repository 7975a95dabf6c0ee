package entities

import (
	"time"
)

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"index;size:100;not null" json:"name"`
	BirthDate   time.Time  `gorm:"type:date;not null" json:"birth_date"`
	DateOfDeath *time.Time `gorm:"type:date" json:"date_of_death,omitempty"`
	// LastBookRemovedAt is set whenever one of the author's books is deleted.
	LastBookRemovedAt *time.Time `gorm:"index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (a Author) String() string {
	return a.Name
}

// IsLiving reports whether no date of death is recorded.
func (a Author) IsLiving() bool {
	return a.DateOfDeath == nil
}

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ISBN            int64     `gorm:"column:isbn;not null" json:"isbn"`
	Title           string    `gorm:"index;size:100;not null" json:"title"`
	PublicationYear int       `gorm:"not null" json:"publication_year"`
	AuthorID        uint      `gorm:"index;not null" json:"author_id"`
	Author          Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	return b.Title
}
