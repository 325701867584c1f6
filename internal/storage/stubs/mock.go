// Package stubs provides in-memory implementations of the storage
// interfaces for tests and for running without a database (USE_MOCK_DB).
package stubs

import (
	"context"
	"sort"
	"sync"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// MockMemberStore is an in-memory members collection
type MockMemberStore struct {
	mu      sync.RWMutex
	members map[models.ID]models.Member
}

// MockBookStore is an in-memory books collection
type MockBookStore struct {
	mu    sync.RWMutex
	books map[models.ID]models.Book
}

// MockBorrowStore is an in-memory borrows collection
type MockBorrowStore struct {
	mu      sync.RWMutex
	borrows map[models.ID]models.Borrow
}

// NewStores creates the three mock collections bundled together.
func NewStores() storage.Stores {
	return storage.Stores{
		Members: NewMockMemberStore(),
		Books:   NewMockBookStore(),
		Borrows: NewMockBorrowStore(),
	}
}

// NewMockMemberStore creates an empty in-memory members collection.
func NewMockMemberStore() *MockMemberStore {
	return &MockMemberStore{members: make(map[models.ID]models.Member)}
}

func (s *MockMemberStore) List(ctx context.Context, filter storage.MemberFilter) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []models.Member
	for _, m := range s.members {
		if filter.Name != "" && m.Name != filter.Name {
			continue
		}
		if filter.Phone != "" && m.Phone != filter.Phone {
			continue
		}
		if filter.Email != "" && m.Email != filter.Email {
			continue
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})
	return members, nil
}

func (s *MockMemberStore) Get(ctx context.Context, id models.ID) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return models.Member{}, storage.ErrNotFound
	}
	return m, nil
}

func (s *MockMemberStore) Insert(ctx context.Context, member models.Member) (models.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member.ID = models.NewID()
	s.members[member.ID] = member
	return member.ID, nil
}

func (s *MockMemberStore) Update(ctx context.Context, member models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[member.ID]; !ok {
		return storage.ErrNotFound
	}
	s.members[member.ID] = member
	return nil
}

func (s *MockMemberStore) Delete(ctx context.Context, id models.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return false, nil
	}
	delete(s.members, id)
	return true, nil
}

// NewMockBookStore creates an empty in-memory books collection.
func NewMockBookStore() *MockBookStore {
	return &MockBookStore{books: make(map[models.ID]models.Book)}
}

func (s *MockBookStore) List(ctx context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var books []models.Book
	for _, b := range s.books {
		books = append(books, b)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}

func (s *MockBookStore) Get(ctx context.Context, id models.ID) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return models.Book{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *MockBookStore) Insert(ctx context.Context, book models.Book) (models.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book.ID = models.NewID()
	s.books[book.ID] = book
	return book.ID, nil
}

// Remove deletes a book directly, bypassing the service. Only used by tests
// to simulate a dangling book reference.
func (s *MockBookStore) Remove(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.books, id)
}

// NewMockBorrowStore creates an empty in-memory borrows collection.
func NewMockBorrowStore() *MockBorrowStore {
	return &MockBorrowStore{borrows: make(map[models.ID]models.Borrow)}
}

func (s *MockBorrowStore) List(ctx context.Context, filter storage.BorrowFilter) ([]models.Borrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var borrows []models.Borrow
	for _, b := range s.borrows {
		if filter.MemberID != "" && b.MemberID != filter.MemberID {
			continue
		}
		if filter.BookID != "" && b.BookID != filter.BookID {
			continue
		}
		borrows = append(borrows, b)
	}

	sort.Slice(borrows, func(i, j int) bool {
		return borrows[i].ID < borrows[j].ID
	})
	return borrows, nil
}

func (s *MockBorrowStore) Get(ctx context.Context, id models.ID) (models.Borrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.borrows[id]
	if !ok {
		return models.Borrow{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *MockBorrowStore) Insert(ctx context.Context, borrow models.Borrow) (models.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrow.ID = models.NewID()
	s.borrows[borrow.ID] = borrow
	return borrow.ID, nil
}

func (s *MockBorrowStore) Delete(ctx context.Context, id models.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.borrows[id]; !ok {
		return false, nil
	}
	delete(s.borrows, id)
	return true, nil
}

func (s *MockBorrowStore) DeleteByMember(ctx context.Context, memberID models.ID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, b := range s.borrows {
		if b.MemberID == memberID {
			delete(s.borrows, id)
			deleted++
		}
	}
	return deleted, nil
}
