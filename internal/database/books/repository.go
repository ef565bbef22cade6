// Package books provides the persistence operations for the book catalogue.
//
// The repository never pre-checks before inserting: the primary key on
// books.isbn is the only arbiter of uniqueness, and a violation surfaces as
// database.ErrConflict.
//
// # Usage
//
//	repo := books.NewRepository(db.DB)
//	book, err := repo.FindByISBN(ctx, "753854367")
package books

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/books-api/internal/database"
	"github.com/mrlokans/books-api/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every book in insertion order. Never nil.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).Order("created_at ASC, isbn ASC").Find(&books).Error
	if err != nil {
		return nil, database.Classify("list books", err)
	}
	return books, nil
}

// FindByISBN retrieves a single book or database.ErrNotFound.
func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, database.Classify("find book", err)
	}
	return &book, nil
}

// Create inserts a new row. A duplicate ISBN yields database.ErrConflict.
func (r *Repository) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	if err := r.db.WithContext(ctx).Create(&book).Error; err != nil {
		return nil, database.Classify("create book", err)
	}
	return &book, nil
}

// Update loads the row, overlays the supplied patch fields and writes the
// merged row back in a single transaction. Omitted fields keep their values.
func (r *Repository) Update(ctx context.Context, isbn string, patch entities.BookPatch) (*entities.Book, error) {
	var updated entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entities.Book
		if err := tx.Where("isbn = ?", isbn).First(&current).Error; err != nil {
			return err
		}

		merged := patch.Apply(current)
		if patch.IsEmpty() {
			updated = merged
			return nil
		}

		result := tx.Model(&current).Select("*").Omit("isbn", "created_at").Updates(&merged)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// deleted between the read and the write
			return database.ErrNotFound
		}

		return tx.Where("isbn = ?", isbn).First(&updated).Error
	})
	if err != nil {
		return nil, database.Classify("update book", err)
	}
	return &updated, nil
}

// Delete removes the row or returns database.ErrNotFound if nothing matched.
func (r *Repository) Delete(ctx context.Context, isbn string) error {
	result := r.db.WithContext(ctx).Where("isbn = ?", isbn).Delete(&entities.Book{})
	if result.Error != nil {
		return database.Classify("delete book", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, database.Classify("count books", err)
	}
	return count, nil
}
