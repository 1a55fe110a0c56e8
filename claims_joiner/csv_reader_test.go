package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	content := "\ufeffId,NAME,CITY\nO1,\"General, Boston\",Boston\nO2,Mercy\n\n"
	if err := os.WriteFile(filepath.Join(dir, "organizations.csv"), []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tbl, err := loadTable(dir, "organizations")
	if err != nil {
		t.Fatalf("loadTable: %v", err)
	}

	// BOM stripped from the first header
	if !reflect.DeepEqual(tbl.Columns(), []string{"Id", "NAME", "CITY"}) {
		t.Errorf("columns = %v", tbl.Columns())
	}
	// Trailing blank record dropped, ragged row padded
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	assertCell(t, tbl, 0, "NAME", "General, Boston")
	assertCell(t, tbl, 1, "CITY", "")
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := loadTable(t.TempDir(), "patients")
	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
	if missing.Table != "patients" {
		t.Errorf("table = %q, want patients", missing.Table)
	}
}

func TestLoadFactTableMissingIsEmpty(t *testing.T) {
	tbl, err := loadFactTable(t.TempDir(), "medications")
	if err != nil {
		t.Fatalf("loadFactTable: %v", err)
	}
	if tbl.NumRows() != 0 || tbl.NumCols() != 0 {
		t.Errorf("missing fact table should load empty, got %d rows %d cols",
			tbl.NumRows(), tbl.NumCols())
	}
}

func TestLoadSourcesRequiresCoreTables(t *testing.T) {
	dir := writeSyntheaFixture(t)
	if err := os.Remove(filepath.Join(dir, "payers.csv")); err != nil {
		t.Fatalf("remove payers.csv: %v", err)
	}

	_, err := loadSources(dir)
	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
	if missing.Table != "payers" {
		t.Errorf("table = %q, want payers", missing.Table)
	}
}
