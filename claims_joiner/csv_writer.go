package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// writeCSV writes the joined table as the delimited output artifact: header
// row first, then one record per transaction, blanks for nulls. Returns the
// byte size of the written file.
func writeCSV(t *Table, path string) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	buf := bufio.NewWriterSize(file, 256*1024)
	w := csv.NewWriter(buf)

	if err := w.Write(t.Columns()); err != nil {
		file.Close()
		return 0, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		if err := w.Write(t.Row(i)); err != nil {
			file.Close()
			return 0, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return 0, fmt.Errorf("flush %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return 0, nil
	}
	return fi.Size(), nil
}
