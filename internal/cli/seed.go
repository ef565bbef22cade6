package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/books-api/internal/database"
	"github.com/mrlokans/books-api/internal/database/books"
	"github.com/mrlokans/books-api/internal/entities"
	"github.com/mrlokans/books-api/internal/entrypoint"
	"github.com/mrlokans/books-api/internal/schema"
)

// SeedCmd loads a list of books into the catalogue. Every record passes the
// same validation as POST /books.
type SeedCmd struct {
	File   string `short:"f" help:"Path to a YAML or JSON list of books" required:"" type:"existingfile"`
	DryRun bool   `help:"Validate the file without writing anything"`
}

// BookCreator is the store surface the seeder needs.
type BookCreator interface {
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
}

// PayloadValidator turns a raw record into a Book.
type PayloadValidator interface {
	ValidateCreate(payload map[string]any) (entities.Book, error)
}

// SeedResult summarises one seed run.
type SeedResult struct {
	Created  int
	Skipped  int
	Existing []string // isbns that were skipped
	Invalid  []string // one line per rejected record
}

func (s *SeedCmd) Run(g *Globals) error {
	records, err := LoadSeedFile(s.File)
	if err != nil {
		return err
	}

	validator, err := entrypoint.LoadValidator(g.Config)
	if err != nil {
		return err
	}

	var store BookCreator = dryRunStore{}
	if !s.DryRun {
		db, err := entrypoint.OpenDatabase(g.Config)
		if err != nil {
			return err
		}
		defer db.Close()
		store = books.NewRepository(db.DB)
	}

	result := Seed(context.Background(), store, validator, records)

	for _, line := range result.Invalid {
		slog.Warn("rejected record", "detail", line)
	}
	slog.Info("seed finished",
		"file", s.File,
		"created", result.Created,
		"skipped", result.Skipped,
		"invalid", len(result.Invalid),
		"dry_run", s.DryRun,
	)

	if len(result.Invalid) > 0 {
		return fmt.Errorf("%d of %d records were rejected", len(result.Invalid), len(records))
	}
	return nil
}

// Seed validates and inserts records in order. Records whose isbn is already
// stored are skipped; invalid ones are reported and do not stop the run.
func Seed(ctx context.Context, store BookCreator, validator PayloadValidator, records []map[string]any) SeedResult {
	var result SeedResult

	for i, record := range records {
		book, err := validator.ValidateCreate(record)
		if err != nil {
			if violations, ok := schema.IsViolation(err); ok {
				result.Invalid = append(result.Invalid, fmt.Sprintf("record %d: %s", i+1, strings.Join(violations.Messages(), "; ")))
				continue
			}
			result.Invalid = append(result.Invalid, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}

		if _, err := store.Create(ctx, book); err != nil {
			if errors.Is(err, database.ErrConflict) {
				result.Skipped++
				result.Existing = append(result.Existing, book.ISBN)
				continue
			}
			result.Invalid = append(result.Invalid, fmt.Sprintf("record %d (isbn %s): %v", i+1, book.ISBN, err))
			continue
		}
		result.Created++
	}

	return result
}

// LoadSeedFile reads a list of book records. Files ending in .json are parsed
// as JSON; anything else as YAML.
func LoadSeedFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&records)
	} else {
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return records, nil
}

// dryRunStore accepts everything and stores nothing.
type dryRunStore struct{}

func (dryRunStore) Create(_ context.Context, book entities.Book) (*entities.Book, error) {
	return &book, nil
}
