package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// loadTableToPg loads the joined table into PostgreSQL. The target table is
// created (dropped first if present) with one TEXT column per output
// column, identifiers quoted, and rows go in via COPY with blanks mapped to
// SQL NULL. The load is transactional: either every row lands or none do.
func loadTableToPg(ctx context.Context, t *Table, connStr, tableName string) error {
	start := time.Now()

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	fmt.Println("Connected to PostgreSQL")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tableName}.Sanitize())); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.Exec(ctx, createTableSQL(t, tableName)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{tableName},
		t.Columns(),
		pgx.CopyFromSlice(t.NumRows(), func(i int) ([]any, error) {
			row := t.Row(i)
			out := make([]any, len(row))
			for ci, v := range row {
				if v == "" {
					out[ci] = nil
				} else {
					out[ci] = v
				}
			}
			return out, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}
	if copied != int64(t.NumRows()) {
		return fmt.Errorf("copy rows: wrote %d of %d", copied, t.NumRows())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("Loaded %d rows into %s in %s (%.0f rows/s)\n",
		copied, tableName, elapsed.Round(time.Millisecond), float64(copied)/elapsed.Seconds())

	return nil
}

// createTableSQL builds the CREATE TABLE statement: every output column as
// TEXT, identifiers quoted since Synthea headers are upper-case.
func createTableSQL(t *Table, tableName string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(pgx.Identifier{tableName}.Sanitize())
	b.WriteString(" (")
	for i, c := range t.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{c}.Sanitize())
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}
