package pg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgresTC "github.com/testcontainers/testcontainers-go/modules/postgres"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// createTables manually prepares the document tables
func createTables(ctx context.Context, store *Store) error {
	for _, table := range []string{tableMembers, tableBooks, tableBorrows} {
		if _, err := store.pool.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return err
		}
		_, err := store.pool.Exec(ctx, "CREATE TABLE "+table+" (id text PRIMARY KEY, doc jsonb NOT NULL)")
		if err != nil {
			return err
		}
	}
	return nil
}

// setupTestDB creates a test Postgres instance using testcontainers
func setupTestDB(t *testing.T) (*Store, func()) {
	ctx := context.Background()

	pgContainer, err := postgresTC.Run(ctx,
		"postgres:16-alpine",
		postgresTC.WithDatabase("librarium"),
		postgresTC.WithUsername("librarium"),
		postgresTC.WithPassword("librarium"),
		postgresTC.BasicWaitStrategies(),
	)
	require.NoError(t, err, "Failed to start Postgres container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Connect(ctx, dsn)
	require.NoError(t, err, "Failed to connect to Postgres")

	err = createTables(ctx, store)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		store.Close()
		pgContainer.Terminate(ctx)
	}

	return store, cleanup
}

func TestMemberStore_CRUD(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	members := store.Stores().Members

	id, err := members.Insert(ctx, models.Member{
		Name:    "Alice",
		Phone:   "111",
		Email:   "alice@example.com",
		Address: "1 Main St",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := members.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "1 Main St", got.Address)

	got.Address = "9 Elm St"
	err = members.Update(ctx, got)
	require.NoError(t, err)

	got, err = members.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "9 Elm St", got.Address)

	deleted, err := members.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = members.Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err = members.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemberStore_Filters(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	members := store.Stores().Members

	_, err := members.Insert(ctx, models.Member{Name: "Alice", Phone: "111", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = members.Insert(ctx, models.Member{Name: "Bob", Phone: "222", Email: "bob@example.com"})
	require.NoError(t, err)

	byName, err := members.List(ctx, storage.MemberFilter{Name: "Alice"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Alice", byName[0].Name)

	byPhone, err := members.List(ctx, storage.MemberFilter{Phone: "222"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Bob", byPhone[0].Name)

	byEmail, err := members.List(ctx, storage.MemberFilter{Email: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Alice", byEmail[0].Name)

	all, err := members.List(ctx, storage.MemberFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := members.List(ctx, storage.MemberFilter{Phone: "999"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemberStore_UpdateMissing(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	err := store.Stores().Members.Update(context.Background(), models.Member{
		ID:   "missing",
		Name: "Ghost",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBookStore(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	books := store.Stores().Books

	id, err := books.Insert(ctx, models.Book{
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   "9780441172719",
		Year:   1965,
	})
	require.NoError(t, err)

	got, err := books.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 1965, got.Year)

	list, err := books.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestBorrowStore(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	borrows := store.Stores().Borrows

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	id, err := borrows.Insert(ctx, models.Borrow{
		MemberID:  "m1",
		BookID:    "b1",
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	got, err := borrows.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ID("m1"), got.MemberID)
	assert.True(t, got.StartDate.Equal(start))
	assert.True(t, got.EndDate.Equal(end))

	_, err = borrows.Insert(ctx, models.Borrow{MemberID: "m1", BookID: "b2", StartDate: start, EndDate: end})
	require.NoError(t, err)
	_, err = borrows.Insert(ctx, models.Borrow{MemberID: "m2", BookID: "b1", StartDate: start, EndDate: end})
	require.NoError(t, err)

	byBook, err := borrows.List(ctx, storage.BorrowFilter{BookID: "b1"})
	require.NoError(t, err)
	assert.Len(t, byBook, 2)

	byMember, err := borrows.List(ctx, storage.BorrowFilter{MemberID: "m1"})
	require.NoError(t, err)
	assert.Len(t, byMember, 2)

	deleted, err := borrows.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = borrows.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBorrowStore_DeleteByMember(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	borrows := store.Stores().Borrows

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	_, err := borrows.Insert(ctx, models.Borrow{MemberID: "m1", BookID: "b1", StartDate: start, EndDate: end})
	require.NoError(t, err)
	_, err = borrows.Insert(ctx, models.Borrow{MemberID: "m1", BookID: "b2", StartDate: start, EndDate: end})
	require.NoError(t, err)
	_, err = borrows.Insert(ctx, models.Borrow{MemberID: "m2", BookID: "b1", StartDate: start, EndDate: end})
	require.NoError(t, err)

	removed, err := borrows.DeleteByMember(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	rest, err := borrows.List(ctx, storage.BorrowFilter{})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, models.ID("m2"), rest[0].MemberID)
}
