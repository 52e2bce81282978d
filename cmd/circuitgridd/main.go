// Command circuitgridd serves circuit snapshots over HTTP. Circuits are
// submitted either as ready-made snapshots or as HCL source that the
// server builds, and are persisted in the configured snapshot store
// (in-memory by default, PostgreSQL when -database-url is set).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vk/circuitgrid/internal/ctxlog"
	"github.com/vk/circuitgrid/internal/inmemorysnapstore"
	"github.com/vk/circuitgrid/internal/pgsnapstore"
	"github.com/vk/circuitgrid/internal/snapstore"
)

func main() {
	listenFlag := flag.String("listen", ":3000", "Address to listen on.")
	dbURLFlag := flag.String("database-url", os.Getenv("DATABASE_URL"),
		"PostgreSQL connection string. Empty selects the in-memory store.")
	logFormatFlag := flag.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flag.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flag.Parse()

	logger := ctxlog.New(*logLevelFlag, *logFormatFlag, os.Stderr)
	slog.SetDefault(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	store, cleanup, err := openStore(ctx, *dbURLFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	app := newApp(store)
	logger.Info("Server starting", "listen", *listenFlag)
	if err := app.Listen(*listenFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore selects the snapshot store backend. A database URL selects
// PostgreSQL and ensures the schema exists; otherwise the ephemeral
// in-memory store is used.
func openStore(ctx context.Context, dbURL string) (snapstore.Store, func(), error) {
	logger := ctxlog.FromContext(ctx)

	if dbURL == "" {
		logger.Info("Using in-memory snapshot store")
		return inmemorysnapstore.New(), func() {}, nil
	}

	pool, err := pgsnapstore.Connect(ctx, dbURL)
	if err != nil {
		return nil, nil, err
	}
	store := pgsnapstore.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Info("Using PostgreSQL snapshot store")
	return store, pool.Close, nil
}
