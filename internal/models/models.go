package models

import (
	"time"

	"github.com/google/uuid"
)

// ID identifies a stored record. It wraps whatever the storage engine
// generates and is only ever rendered as a string.
type ID string

// NewID generates a fresh record identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// Member represents a registered library member
type Member struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Book represents a book in the catalog
type Book struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Year   int    `json:"year"`
}

// Borrow represents a borrow record. MemberID and BookID are weak
// references: the referenced record may have been deleted since.
type Borrow struct {
	ID        ID        `json:"id"`
	MemberID  ID        `json:"memberId"`
	BookID    ID        `json:"bookId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}
