// Package migrate applies embedded .sql files in filename order and records
// each applied file, so a second run is a no-op. Each backend supplies a
// Store that speaks its own SQL dialect.
package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Store is the backend-specific half of the migration runner.
type Store interface {
	// EnsureTable creates the schema_migrations bookkeeping table.
	EnsureTable(ctx context.Context) error
	// Applied returns the filenames already recorded.
	Applied(ctx context.Context) (map[string]bool, error)
	// Apply executes content and records filename in one transaction.
	Apply(ctx context.Context, filename, content string) error
}

// Run applies every unapplied migration in fsys.
func Run(ctx context.Context, fsys fs.FS, store Store) error {
	if err := store.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := store.Applied(ctx)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := Files(fsys)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	for _, filename := range files {
		if applied[filename] {
			slog.Debug("migration already applied", "file", filename)
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filename, err)
		}
		if err := store.Apply(ctx, filename, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filename, err)
		}
		slog.Info("migration applied", "file", filename)
	}

	return nil
}

// Files lists the .sql files at the root of fsys, sorted by name.
func Files(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
