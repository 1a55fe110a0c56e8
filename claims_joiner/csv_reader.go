package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadTable reads <dir>/<name>.csv fully into a Table. The first record is
// the header; every later record is a row. There are no partial loads: the
// whole file parses or the load fails.
func loadTable(dir, name string) (*Table, error) {
	path := filepath.Join(dir, name+".csv")

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingInputError{Table: name, Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return NewTable(nil, nil), nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	rows := records[1:]

	// Drop fully blank records (trailing newlines and the like)
	kept := rows[:0]
	for _, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		kept = append(kept, row)
	}

	return NewTable(header, kept), nil
}

// loadFactTable reads a clinical fact table (procedures, conditions,
// medications). Unlike the core tables, a missing fact file is a legitimate
// state (some Synthea runs export no facts of a kind) and yields an empty
// table so the downstream aggregate joins produce all-null lists.
func loadFactTable(dir, name string) (*Table, error) {
	t, err := loadTable(dir, name)
	if err != nil {
		var missing *MissingInputError
		if errors.As(err, &missing) {
			return NewTable(nil, nil), nil
		}
		return nil, err
	}
	return t, nil
}
