package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librarium/internal/audit"
	"librarium/internal/models"
	"librarium/internal/storage"
	"librarium/internal/storage/stubs"
)

// stubOracle is a canned validation oracle for tests
type stubOracle struct {
	phoneValid bool
	emailValid bool
	err        error
}

func (o stubOracle) ValidPhone(ctx context.Context, phone string) (bool, error) {
	return o.phoneValid, o.err
}

func (o stubOracle) ValidEmail(ctx context.Context, email string) (bool, error) {
	return o.emailValid, o.err
}

func allowAll() stubOracle {
	return stubOracle{phoneValid: true, emailValid: true}
}

func newTestService(oracle Oracle) (*Service, storage.Stores) {
	stores := stubs.NewStores()
	return NewService(stores, oracle, audit.Nop{}, zap.NewNop()), stores
}

func day(n int) time.Time {
	return time.Date(2025, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestCreateMember(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and returns resolved view", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		view, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)

		assert.NotEmpty(t, view.ID)
		assert.Equal(t, "Alice", view.Name)
		assert.Equal(t, "111", view.Phone)
		assert.Empty(t, view.Borrows)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateMember(ctx, "Alice", "", "alice@example.com", "1 Main St")
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("rejects implausible phone", func(t *testing.T) {
		svc, _ := newTestService(stubOracle{phoneValid: false, emailValid: true})

		_, err := svc.CreateMember(ctx, "Alice", "not-a-phone", "alice@example.com", "1 Main St")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("rejects implausible email", func(t *testing.T) {
		svc, _ := newTestService(stubOracle{phoneValid: true, emailValid: false})

		_, err := svc.CreateMember(ctx, "Alice", "111", "not-an-email", "1 Main St")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)

		_, err = svc.CreateMember(ctx, "Bob", "111", "bob@example.com", "2 Main St")
		assert.ErrorIs(t, err, ErrDuplicateContact)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateMember(ctx, "Alice", "111", "shared@example.com", "1 Main St")
		require.NoError(t, err)

		_, err = svc.CreateMember(ctx, "Bob", "222", "shared@example.com", "2 Main St")
		assert.ErrorIs(t, err, ErrDuplicateContact)
	})

	t.Run("fails when oracle is unreachable", func(t *testing.T) {
		svc, _ := newTestService(stubOracle{err: context.DeadlineExceeded})

		_, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestUpdateMember(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged contact never counts as duplicate of self", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		created, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)

		// Same phone and email, new address.
		view, err := svc.UpdateMember(ctx, created.ID, "Alice", "111", "alice@example.com", "9 Elm St")
		require.NoError(t, err)
		assert.Equal(t, "9 Elm St", view.Address)
	})

	t.Run("changed phone colliding with another member is rejected", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)
		bob, err := svc.CreateMember(ctx, "Bob", "222", "bob@example.com", "2 Main St")
		require.NoError(t, err)

		_, err = svc.UpdateMember(ctx, bob.ID, "Bob", "111", "bob@example.com", "2 Main St")
		assert.ErrorIs(t, err, ErrDuplicateContact)
	})

	t.Run("unknown member", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.UpdateMember(ctx, "missing", "Alice", "111", "alice@example.com", "1 Main St")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("oracle is not consulted for unchanged contact", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		created, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)

		// Swap in an oracle that rejects everything. The update must still
		// pass because neither phone nor email changed.
		svc.oracle = stubOracle{}
		_, err = svc.UpdateMember(ctx, created.ID, "Alicia", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)
	})
}

func TestDeleteMember(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to the member's borrows", func(t *testing.T) {
		svc, stores := newTestService(allowAll())

		member, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)
		book1, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441172719", 1965)
		require.NoError(t, err)
		book2, err := svc.CreateBook(ctx, "Hyperion", "Dan Simmons", "9780553283686", 1989)
		require.NoError(t, err)

		_, err = svc.CreateBorrow(ctx, member.ID, book1.ID, day(1), day(5))
		require.NoError(t, err)
		_, err = svc.CreateBorrow(ctx, member.ID, book2.ID, day(1), day(5))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteMember(ctx, member.ID))

		borrows, err := stores.Borrows.List(ctx, storage.BorrowFilter{})
		require.NoError(t, err)
		assert.Empty(t, borrows)

		_, err = svc.GetMember(ctx, member.ID)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("unknown member", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		err := svc.DeleteMember(ctx, "missing")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestCreateBorrow(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, storage.Stores, models.MemberView, models.Book) {
		svc, stores := newTestService(allowAll())
		member, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
		require.NoError(t, err)
		book, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441172719", 1965)
		require.NoError(t, err)
		return svc, stores, member, book
	}

	t.Run("non-overlapping periods all succeed", func(t *testing.T) {
		svc, _, member, book := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
		require.NoError(t, err)
		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(6), day(10))
		require.NoError(t, err)
		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(11), day(15))
		require.NoError(t, err)
	})

	t.Run("shared boundary day conflicts", func(t *testing.T) {
		svc, _, member, book := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
		require.NoError(t, err)

		// Day 5 belongs to both periods under the inclusive rule.
		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(5), day(10))
		assert.ErrorIs(t, err, ErrBookAlreadyBorrowed)
	})

	t.Run("conflict is found against any existing borrow, not only the first", func(t *testing.T) {
		svc, _, member, book := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
		require.NoError(t, err)
		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(10), day(15))
		require.NoError(t, err)

		// Overlaps only the second stored borrow.
		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(12), day(20))
		assert.ErrorIs(t, err, ErrBookAlreadyBorrowed)
	})

	t.Run("same book free periods, different books independent", func(t *testing.T) {
		svc, _, member, book := setup(t)

		other, err := svc.CreateBook(ctx, "Hyperion", "Dan Simmons", "9780553283686", 1989)
		require.NoError(t, err)

		_, err = svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
		require.NoError(t, err)

		// Same period on another book is fine.
		_, err = svc.CreateBorrow(ctx, member.ID, other.ID, day(1), day(5))
		require.NoError(t, err)
	})

	t.Run("start equal to end is an invalid range", func(t *testing.T) {
		svc, _, member, book := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(3), day(3))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("start after end is an invalid range", func(t *testing.T) {
		svc, _, member, book := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(9), day(3))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("unknown member", func(t *testing.T) {
		svc, _, _, book := setup(t)

		_, err := svc.CreateBorrow(ctx, "missing", book.ID, day(1), day(5))
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, _, member, _ := setup(t)

		_, err := svc.CreateBorrow(ctx, member.ID, "missing", day(1), day(5))
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("returns the resolved view", func(t *testing.T) {
		svc, _, member, book := setup(t)

		view, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
		require.NoError(t, err)

		assert.Equal(t, member.ID, view.Member.ID)
		assert.Equal(t, "Alice", view.Member.Name)
		assert.Equal(t, book.ID, view.Book.ID)
		assert.Equal(t, "Dune", view.Book.Title)
	})
}

func TestDeleteBorrow(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(allowAll())
	member, err := svc.CreateMember(ctx, "Alice", "111", "alice@example.com", "1 Main St")
	require.NoError(t, err)
	book, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441172719", 1965)
	require.NoError(t, err)
	view, err := svc.CreateBorrow(ctx, member.ID, book.ID, day(1), day(5))
	require.NoError(t, err)

	deleted, err := svc.DeleteBorrow(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting again reports false, not an error.
	deleted, err = svc.DeleteBorrow(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("creates book", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		book, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441172719", 1965)
		require.NoError(t, err)
		assert.NotEmpty(t, book.ID)
		assert.Equal(t, 1965, book.Year)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateBook(ctx, "Dune", "", "9780441172719", 1965)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("duplicate isbn is allowed", func(t *testing.T) {
		svc, _ := newTestService(allowAll())

		_, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "9780441172719", 1965)
		require.NoError(t, err)
		_, err = svc.CreateBook(ctx, "Dune (reprint)", "Frank Herbert", "9780441172719", 1990)
		require.NoError(t, err)
	})
}
