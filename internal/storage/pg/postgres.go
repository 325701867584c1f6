// Package pg implements the storage interfaces on PostgreSQL, keeping each
// entity as a JSONB document keyed by its id. Filters select on JSON fields,
// so the adapters stay plain find/insert/update/delete primitives.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"librarium/internal/models"
	"librarium/internal/storage"
)

const (
	tableMembers = "members"
	tableBooks   = "books"
	tableBorrows = "borrows"

	castJSONB = "?::jsonb"
)

var (
	json    = jsoniter.ConfigCompatibleWithStandardLibrary
	dialect = goqu.Dialect("postgres")
)

// Store holds the connection pool shared by the three collection adapters
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Stores returns the collection adapters bundled for dependency injection.
func (s *Store) Stores() storage.Stores {
	return storage.Stores{
		Members: &MemberStore{collection{pool: s.pool, table: tableMembers}},
		Books:   &BookStore{collection{pool: s.pool, table: tableBooks}},
		Borrows: &BorrowStore{collection{pool: s.pool, table: tableBorrows}},
	}
}

// collection wraps one document table with (id text primary key, doc jsonb)
type collection struct {
	pool  *pgxpool.Pool
	table string
}

func (c collection) find(ctx context.Context, conds ...goqu.Expression) ([][]byte, error) {
	ds := dialect.From(c.table).Select(goqu.C("doc")).Order(goqu.C("id").Asc())
	if len(conds) > 0 {
		ds = ds.Where(conds...)
	}

	sqlQuery, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := c.pool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", c.table, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", c.table, err)
	}
	return docs, nil
}

func (c collection) get(ctx context.Context, id models.ID) ([]byte, error) {
	sqlQuery, args, err := dialect.From(c.table).
		Select(goqu.C("doc")).
		Where(goqu.C("id").Eq(id.String())).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var doc []byte
	if err := c.pool.QueryRow(ctx, sqlQuery, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s record: %w", c.table, err)
	}
	return doc, nil
}

func (c collection) insert(ctx context.Context, id models.ID, record any) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", c.table, err)
	}

	sqlQuery, args, err := dialect.Insert(c.table).
		Rows(goqu.Record{"id": id.String(), "doc": goqu.L(castJSONB, string(doc))}).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := c.pool.Exec(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", c.table, err)
	}
	return nil
}

func (c collection) update(ctx context.Context, id models.ID, record any) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", c.table, err)
	}

	sqlQuery, args, err := dialect.Update(c.table).
		Set(goqu.Record{"doc": goqu.L(castJSONB, string(doc))}).
		Where(goqu.C("id").Eq(id.String())).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := c.pool.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (c collection) deleteWhere(ctx context.Context, conds ...goqu.Expression) (int64, error) {
	sqlQuery, args, err := dialect.Delete(c.table).Where(conds...).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := c.pool.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.table, err)
	}
	return tag.RowsAffected(), nil
}

// fieldEq matches a top-level document field as text.
func fieldEq(name, value string) goqu.Expression {
	return goqu.L("doc->>? = ?", name, value)
}

// MemberStore is the members collection adapter
type MemberStore struct {
	collection
}

func (s *MemberStore) List(ctx context.Context, filter storage.MemberFilter) ([]models.Member, error) {
	var conds []goqu.Expression
	if filter.Name != "" {
		conds = append(conds, fieldEq("name", filter.Name))
	}
	if filter.Phone != "" {
		conds = append(conds, fieldEq("phone", filter.Phone))
	}
	if filter.Email != "" {
		conds = append(conds, fieldEq("email", filter.Email))
	}

	docs, err := s.find(ctx, conds...)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(docs))
	for _, doc := range docs {
		var m models.Member
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member document: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}

func (s *MemberStore) Get(ctx context.Context, id models.ID) (models.Member, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return models.Member{}, err
	}
	var m models.Member
	if err := json.Unmarshal(doc, &m); err != nil {
		return models.Member{}, fmt.Errorf("failed to unmarshal member document: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Insert(ctx context.Context, member models.Member) (models.ID, error) {
	member.ID = models.NewID()
	if err := s.insert(ctx, member.ID, member); err != nil {
		return "", err
	}
	return member.ID, nil
}

func (s *MemberStore) Update(ctx context.Context, member models.Member) error {
	return s.update(ctx, member.ID, member)
}

func (s *MemberStore) Delete(ctx context.Context, id models.ID) (bool, error) {
	n, err := s.deleteWhere(ctx, goqu.C("id").Eq(id.String()))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BookStore is the books collection adapter
type BookStore struct {
	collection
}

func (s *BookStore) List(ctx context.Context) ([]models.Book, error) {
	docs, err := s.find(ctx)
	if err != nil {
		return nil, err
	}

	books := make([]models.Book, 0, len(docs))
	for _, doc := range docs {
		var b models.Book
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal book document: %w", err)
		}
		books = append(books, b)
	}
	return books, nil
}

func (s *BookStore) Get(ctx context.Context, id models.ID) (models.Book, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	var b models.Book
	if err := json.Unmarshal(doc, &b); err != nil {
		return models.Book{}, fmt.Errorf("failed to unmarshal book document: %w", err)
	}
	return b, nil
}

func (s *BookStore) Insert(ctx context.Context, book models.Book) (models.ID, error) {
	book.ID = models.NewID()
	if err := s.insert(ctx, book.ID, book); err != nil {
		return "", err
	}
	return book.ID, nil
}

// BorrowStore is the borrows collection adapter
type BorrowStore struct {
	collection
}

func (s *BorrowStore) List(ctx context.Context, filter storage.BorrowFilter) ([]models.Borrow, error) {
	var conds []goqu.Expression
	if filter.MemberID != "" {
		conds = append(conds, fieldEq("memberId", filter.MemberID.String()))
	}
	if filter.BookID != "" {
		conds = append(conds, fieldEq("bookId", filter.BookID.String()))
	}

	docs, err := s.find(ctx, conds...)
	if err != nil {
		return nil, err
	}

	borrows := make([]models.Borrow, 0, len(docs))
	for _, doc := range docs {
		var b models.Borrow
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal borrow document: %w", err)
		}
		borrows = append(borrows, b)
	}
	return borrows, nil
}

func (s *BorrowStore) Get(ctx context.Context, id models.ID) (models.Borrow, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return models.Borrow{}, err
	}
	var b models.Borrow
	if err := json.Unmarshal(doc, &b); err != nil {
		return models.Borrow{}, fmt.Errorf("failed to unmarshal borrow document: %w", err)
	}
	return b, nil
}

func (s *BorrowStore) Insert(ctx context.Context, borrow models.Borrow) (models.ID, error) {
	borrow.ID = models.NewID()
	if err := s.insert(ctx, borrow.ID, borrow); err != nil {
		return "", err
	}
	return borrow.ID, nil
}

func (s *BorrowStore) Delete(ctx context.Context, id models.ID) (bool, error) {
	n, err := s.deleteWhere(ctx, goqu.C("id").Eq(id.String()))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BorrowStore) DeleteByMember(ctx context.Context, memberID models.ID) (int64, error) {
	return s.deleteWhere(ctx, fieldEq("memberId", memberID.String()))
}
