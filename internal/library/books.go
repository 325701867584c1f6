package library

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// ListBooks returns all books in the catalog.
func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.stores.Books.List(ctx)
}

// GetBook returns one book by id.
func (s *Service) GetBook(ctx context.Context, id models.ID) (models.Book, error) {
	book, err := s.stores.Books.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, err
	}
	return book, nil
}

// CreateBook adds a book to the catalog. There is no duplicate check;
// two books may share an ISBN.
func (s *Service) CreateBook(ctx context.Context, title, author, isbn string, year int) (models.Book, error) {
	if title == "" || author == "" || isbn == "" || year == 0 {
		return models.Book{}, ErrMissingFields
	}

	id, err := s.stores.Books.Insert(ctx, models.Book{
		Title:  title,
		Author: author,
		ISBN:   isbn,
		Year:   year,
	})
	if err != nil {
		return models.Book{}, err
	}

	created, err := s.stores.Books.Get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}

	s.logger.Info("Book created", zap.String("book_id", id.String()), zap.String("title", title))
	s.recordAudit(ctx, "book", id, "create", title)

	return created, nil
}
