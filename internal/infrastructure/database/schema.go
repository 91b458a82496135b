package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SchemaFile is one embedded DDL script.
type SchemaFile struct {
	Name string
	SQL  string
}

// SchemaFiles returns the embedded scripts in apply order.
func SchemaFiles() ([]SchemaFile, error) {
	entries, err := fs.ReadDir(schemaFS, "schema")
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	files := make([]SchemaFile, 0, len(names))
	for _, name := range names {
		b, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, SchemaFile{Name: name, SQL: string(b)})
	}
	return files, nil
}

// OpenSQL opens a database/sql handle through lib/pq. Only the schema
// runner uses it; repositories share the pgx pool.
func OpenSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// ApplySchema runs every embedded script. Scripts are idempotent
// (CREATE ... IF NOT EXISTS) so this is safe to repeat in development.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	files, err := SchemaFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := db.ExecContext(ctx, f.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", f.Name, err)
		}
		log.Printf("[DATABASE] Applied %s", f.Name)
	}
	return nil
}
