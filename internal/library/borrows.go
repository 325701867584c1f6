package library

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// periodsOverlap reports whether two borrow periods share at least one day.
// Boundaries count: a borrow ending on day 5 overlaps one starting on day 5.
func periodsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ListBorrows returns resolved views of all borrow records.
func (s *Service) ListBorrows(ctx context.Context) ([]models.BorrowView, error) {
	borrows, err := s.stores.Borrows.List(ctx, storage.BorrowFilter{})
	if err != nil {
		return nil, err
	}

	views := make([]models.BorrowView, 0, len(borrows))
	for _, b := range borrows {
		view, err := s.resolveBorrow(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateBorrow schedules a borrow after checking that the member and book
// exist, the period is well-formed, and the book is free for every day of
// the period. The check runs against all stored borrows for the book, not
// just the first match.
//
// The check and the insert are not atomic: two concurrent calls for the
// same book can both pass the check. Callers needing strict exclusion must
// serialize per book.
func (s *Service) CreateBorrow(ctx context.Context, memberID, bookID models.ID, start, end time.Time) (models.BorrowView, error) {
	if memberID == "" || bookID == "" || start.IsZero() || end.IsZero() {
		return models.BorrowView{}, ErrMissingFields
	}

	if _, err := s.stores.Members.Get(ctx, memberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.BorrowView{}, ErrMemberNotFound
		}
		return models.BorrowView{}, err
	}
	if _, err := s.stores.Books.Get(ctx, bookID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.BorrowView{}, ErrBookNotFound
		}
		return models.BorrowView{}, err
	}

	if !start.Before(end) {
		return models.BorrowView{}, ErrInvalidRange
	}

	existing, err := s.stores.Borrows.List(ctx, storage.BorrowFilter{BookID: bookID})
	if err != nil {
		return models.BorrowView{}, err
	}
	for _, b := range existing {
		if periodsOverlap(b.StartDate, b.EndDate, start, end) {
			return models.BorrowView{}, ErrBookAlreadyBorrowed
		}
	}

	id, err := s.stores.Borrows.Insert(ctx, models.Borrow{
		MemberID:  memberID,
		BookID:    bookID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return models.BorrowView{}, err
	}

	created, err := s.stores.Borrows.Get(ctx, id)
	if err != nil {
		return models.BorrowView{}, err
	}

	s.logger.Info("Borrow created",
		zap.String("borrow_id", id.String()),
		zap.String("member_id", memberID.String()),
		zap.String("book_id", bookID.String()),
	)
	s.recordAudit(ctx, "borrow", id, "create", bookID.String())

	return s.resolveBorrow(ctx, created)
}

// DeleteBorrow removes a borrow record by id. Deleting an absent record is
// not an error; the returned bool reports whether anything was removed.
func (s *Service) DeleteBorrow(ctx context.Context, id models.ID) (bool, error) {
	if id == "" {
		return false, ErrMissingFields
	}

	deleted, err := s.stores.Borrows.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("Borrow deleted", zap.String("borrow_id", id.String()))
		s.recordAudit(ctx, "borrow", id, "delete", "")
	}
	return deleted, nil
}
