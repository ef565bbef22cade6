package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/books-api/internal/auth"
)

// HashKeyCmd prints a bcrypt hash suitable for AUTH_API_KEY_HASH.
type HashKeyCmd struct {
	Key  string `arg:"" help:"API key to hash (at least 16 characters)"`
	Cost int    `help:"bcrypt cost (defaults to bcrypt.DefaultCost)"`

	out io.Writer
}

func (h *HashKeyCmd) Run() error {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := auth.HashAPIKey(h.Key, cost)
	if err != nil {
		return err
	}

	out := h.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
