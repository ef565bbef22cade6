// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Driver selection (sqlite, postgres), pool setup, migrations
//	├── errors.go        # ErrNotFound / ErrConflict and driver error classification
//	├── books/           # Book CRUD keyed by ISBN
//	└── audit/           # Change history and retention purge
//
// # Using Sub-packages
//
//	db, err := database.Open(database.Options{Driver: "sqlite", DSN: "./books.db"})
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.FindByISBN(ctx, "753854367")
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// Repositories never leak gorm or driver errors: everything passes through
// Classify, which maps missing rows and unique violations onto the sentinels
// above and wraps the rest in a StorageError.
package database
