package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"github.com/mrlokans/books-api/internal/config"
	"github.com/mrlokans/books-api/internal/entrypoint"
)

// CLI is the command tree of the books-api binary. Settings come from the
// environment (and .env files); flags only select what to run.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP API (default)"`
	Migrate MigrateCmd `cmd:"" help:"Create or update the database tables and exit"`
	Seed    SeedCmd    `cmd:"" help:"Load books from a YAML or JSON file"`
	HashKey HashKeyCmd `cmd:"" name:"hash-key" help:"Print the bcrypt hash of an API key for AUTH_API_KEY_HASH"`
	Version VersionCmd `cmd:"" help:"Print the version and exit"`
}

// Globals are bound into every command's Run method.
type Globals struct {
	Config  *config.Config
	Version string
	Commit  string
}

type ServeCmd struct{}

func (s *ServeCmd) Run(g *Globals) error {
	return entrypoint.Run(g.Config, g.Version)
}

type VersionCmd struct{}

func (v *VersionCmd) Run(g *Globals) error {
	fmt.Printf("books-api %s (%s)\n", g.Version, g.Commit)
	return nil
}

// Execute parses os.Args and runs the selected command.
func Execute(version, commit string) {
	config.LoadDotEnv(config.DotEnvFiles...)
	cfg := config.NewConfig()
	initLogging(cfg.Log.SlogLevel())

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("books-api"),
		kong.Description("A JSON API over a catalogue of books."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&Globals{Config: cfg, Version: version, Commit: commit})
	if err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
