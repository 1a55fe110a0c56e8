package main

import "fmt"

// MissingInputError reports a required source CSV that does not exist.
// Loading is all-or-nothing: this aborts the run before any join executes.
type MissingInputError struct {
	Table string
	Path  string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input table %q: %s not found", e.Table, e.Path)
}

// SchemaMismatchError reports a key or join column absent from a loaded
// table. Raised at the step that needed the column.
type SchemaMismatchError struct {
	Table  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table %q is missing required column %q", e.Table, e.Column)
}

// KeyCardinalityError reports duplicate values in a join key declared
// unique. Joining through duplicates would silently multiply transaction
// rows, so the pipeline refuses before the join executes.
type KeyCardinalityError struct {
	Table string
	Key   string
	Value string
}

func (e *KeyCardinalityError) Error() string {
	return fmt.Sprintf("table %q has duplicate key %s=%q; refusing to join", e.Table, e.Key, e.Value)
}
