package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// The joined table's column set is only known at run time (it is the union
// of whatever columns the Synthea export carried), so the Parquet schema is
// built dynamically: every column optional, typed by inference over the
// joined cells. Numeric transaction amounts become DOUBLE/INT64 so query
// engines get real predicates; everything else stays a string.
//
// Writer configuration follows the other Parquet writers in this codebase:
// Zstd for size, large write buffer for few row groups, page statistics on
// for predicate pushdown.

// buildParquetSchema infers a type per column and assembles the schema.
// The returned types slice is parallel to t.Columns().
func buildParquetSchema(t *Table) (*parquet.Schema, []columnType) {
	group := parquet.Group{}
	types := make([]columnType, t.NumCols())
	for i, c := range t.Columns() {
		ct := t.inferColumnType(c)
		types[i] = ct
		switch ct {
		case typeInt64:
			group[c] = parquet.Optional(parquet.Int(64))
		case typeDouble:
			group[c] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		default:
			group[c] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("joined_claims", group), types
}

// writeParquet writes the joined table to a Parquet file, blanks as NULLs.
// Returns the byte size of the written file.
func writeParquet(t *Table, path string) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}

	schema, types := buildParquetSchema(t)
	writer := parquet.NewGenericWriter[map[string]any](file,
		schema,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.WriteBufferSize(64*1024*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("claims_joiner", "1.0", ""),
	)

	const batchSize = 10000
	cols := t.Columns()
	batch := make([]map[string]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.Write(batch); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		rec := make(map[string]any, len(cols))
		for ci, c := range cols {
			v := row[ci]
			if v == "" {
				continue // absent map key encodes NULL
			}
			switch types[ci] {
			case typeInt64:
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return 0, fmt.Errorf("row %d column %s: %w", i+1, c, err)
				}
				rec[c] = n
			case typeDouble:
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return 0, fmt.Errorf("row %d column %s: %w", i+1, c, err)
				}
				rec[c] = f
			default:
				rec[c] = v
			}
		}
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				file.Close()
				return 0, err
			}
		}
	}
	if err := flush(); err != nil {
		file.Close()
		return 0, err
	}

	if err := writer.Close(); err != nil {
		file.Close()
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close parquet file: %w", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return 0, nil
	}
	return fi.Size(), nil
}
