package library

import (
	"context"
	"errors"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// Placeholders substituted when a borrow references a deleted record. The
// member-embedded borrow list historically used a different title than the
// top-level borrow view; both are kept as-is for response compatibility.
const (
	missingMemberName    = "N/A"
	missingBookTitle     = "N/A"
	missingEmbeddedTitle = "Unknown"
)

// resolveBorrow assembles the denormalized borrow view, substituting
// placeholders for references whose target no longer exists.
func (s *Service) resolveBorrow(ctx context.Context, borrow models.Borrow) (models.BorrowView, error) {
	view := models.BorrowView{
		ID:        borrow.ID,
		StartDate: borrow.StartDate,
		EndDate:   borrow.EndDate,
	}

	member, err := s.stores.Members.Get(ctx, borrow.MemberID)
	switch {
	case err == nil:
		view.Member = models.MemberRef{ID: member.ID, Name: member.Name}
	case errors.Is(err, storage.ErrNotFound):
		view.Member = models.MemberRef{ID: borrow.MemberID, Name: missingMemberName}
	default:
		return models.BorrowView{}, err
	}

	book, err := s.stores.Books.Get(ctx, borrow.BookID)
	switch {
	case err == nil:
		view.Book = models.BookRef{ID: book.ID, Title: book.Title}
	case errors.Is(err, storage.ErrNotFound):
		view.Book = models.BookRef{ID: borrow.BookID, Title: missingBookTitle}
	default:
		return models.BorrowView{}, err
	}

	return view, nil
}

// resolveMember assembles the member view with the member's borrows
// embedded. Only the book reference is resolved per borrow; the member
// reference would be the member itself.
func (s *Service) resolveMember(ctx context.Context, member models.Member) (models.MemberView, error) {
	borrows, err := s.stores.Borrows.List(ctx, storage.BorrowFilter{MemberID: member.ID})
	if err != nil {
		return models.MemberView{}, err
	}

	embedded := make([]models.MemberBorrowView, 0, len(borrows))
	for _, b := range borrows {
		entry := models.MemberBorrowView{
			ID:        b.ID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
		}

		book, err := s.stores.Books.Get(ctx, b.BookID)
		switch {
		case err == nil:
			entry.Book = models.BookRef{ID: book.ID, Title: book.Title}
		case errors.Is(err, storage.ErrNotFound):
			entry.Book = models.BookRef{ID: b.BookID, Title: missingEmbeddedTitle}
		default:
			return models.MemberView{}, err
		}

		embedded = append(embedded, entry)
	}

	return models.MemberView{
		ID:      member.ID,
		Name:    member.Name,
		Phone:   member.Phone,
		Email:   member.Email,
		Address: member.Address,
		Borrows: embedded,
	}, nil
}
