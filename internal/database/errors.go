package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means no row exists for the addressed key.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the store rejected a write on its uniqueness constraint.
	ErrConflict = errors.New("duplicate record")
)

// StorageError wraps any driver, connection or query failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage fault during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Classify maps a raw gorm/driver error onto ErrNotFound, ErrConflict or a
// *StorageError. A nil error stays nil.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		var storageErr *StorageError
		if errors.As(err, &storageErr) {
			return err
		}
		return &StorageError{Op: op, Err: err}
	}
}

// IsDuplicateKey recognises primary-key and unique violations from every
// supported driver.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
