package storage

import (
	"context"
	"errors"

	"librarium/internal/models"
)

// ErrNotFound is returned by point lookups when no record matches the id.
var ErrNotFound = errors.New("record not found")

// MemberFilter narrows a member listing. Zero-valued fields are ignored.
type MemberFilter struct {
	Name  string
	Phone string
	Email string
}

// BorrowFilter narrows a borrow listing. Zero-valued fields are ignored.
type BorrowFilter struct {
	MemberID models.ID
	BookID   models.ID
}

// MemberStore provides CRUD primitives over the members collection
type MemberStore interface {
	List(ctx context.Context, filter MemberFilter) ([]models.Member, error)
	Get(ctx context.Context, id models.ID) (models.Member, error)
	Insert(ctx context.Context, member models.Member) (models.ID, error)
	Update(ctx context.Context, member models.Member) error
	Delete(ctx context.Context, id models.ID) (bool, error)
}

// BookStore provides CRUD primitives over the books collection.
// Books are never updated or deleted in the current scope.
type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id models.ID) (models.Book, error)
	Insert(ctx context.Context, book models.Book) (models.ID, error)
}

// BorrowStore provides CRUD primitives over the borrows collection
type BorrowStore interface {
	List(ctx context.Context, filter BorrowFilter) ([]models.Borrow, error)
	Get(ctx context.Context, id models.ID) (models.Borrow, error)
	Insert(ctx context.Context, borrow models.Borrow) (models.ID, error)
	Delete(ctx context.Context, id models.ID) (bool, error)
	DeleteByMember(ctx context.Context, memberID models.ID) (int64, error)
}

// Stores bundles the three collection adapters handed to every operation
type Stores struct {
	Members MemberStore
	Books   BookStore
	Borrows BorrowStore
}
