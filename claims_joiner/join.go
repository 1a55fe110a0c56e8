package main

import "strings"

// The join pipeline turns the Synthea export into one wide row per claim
// transaction. Order matters: the encounter reference lives on the claim,
// not on the transaction, so claims must join first; every later step joins
// against the growing result.
//
// Each step is one entry in a declarative table driving a single
// parametrized left-join procedure, so key choices, rename maps and
// post-join drops stay auditable in one place.

// claimRenames avoids collisions with the transaction's own same-named
// columns before the first join.
var claimRenames = map[string]string{
	"Id":                    "CLAIM_ID",
	"PATIENTID":             "CLAIM_PATIENTID",
	"PROVIDERID":            "CLAIM_PROVIDERID",
	"DEPARTMENTID":          "CLAIM_DEPARTMENTID",
	"APPOINTMENTID":         "CLAIM_APPOINTMENTID",
	"SUPERVISINGPROVIDERID": "CLAIM_SUPERVISINGPROVIDERID",
}

var encounterRenames = map[string]string{
	"Id":                "ENCOUNTER_ID",
	"START":             "ENCOUNTER_START",
	"STOP":              "ENCOUNTER_STOP",
	"CODE":              "ENCOUNTER_CODE",
	"DESCRIPTION":       "ENCOUNTER_DESCRIPTION",
	"REASONCODE":        "ENCOUNTER_REASONCODE",
	"REASONDESCRIPTION": "ENCOUNTER_REASONDESCRIPTION",
}

// conflictSuffixes are the markers a pairwise merge appends when both sides
// contribute an identically named column that was not pre-namespaced. The
// namespacing scheme makes these unreachable in the normal case; the
// resolver scans for them as a safety net.
var conflictSuffixes = []string{
	"_x", "_y",
	"_ENC", "_PAT", "_PROV", "_ORG", "_PAYER",
	"_PROC", "_COND", "_MED",
}

// sourceTables holds the ten loaded inputs, raw as read from disk.
type sourceTables struct {
	Transactions  *Table
	Claims        *Table
	Encounters    *Table
	Patients      *Table
	Providers     *Table
	Organizations *Table
	Payers        *Table
	Procedures    *Table
	Conditions    *Table
	Medications   *Table
}

type joinStep struct {
	name      string   // right-hand table name, for progress and errors
	right     *Table   // prepared (renamed/namespaced/aggregated) right side
	leftKeys  []string // keys on the growing result
	rightKeys []string // keys on the right table, unique by contract
	suffix    string   // conflict marker for colliding right columns
	dropAfter []string // join-only helper columns removed from the result
}

// joinClaimsData runs the full pipeline: namespace dimensions, aggregate
// clinical facts, execute the nine left joins in order, then sweep residual
// conflict-marker columns. logf receives one line per step; pass nil for
// silence. The result has exactly one row per input transaction.
func joinClaimsData(src *sourceTables, logf func(format string, args ...any)) (*Table, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	procAgg, err := aggregateClinical(src.Procedures, "procedures", "PROCEDURE")
	if err != nil {
		return nil, err
	}
	condAgg, err := aggregateClinical(src.Conditions, "conditions", "CONDITION")
	if err != nil {
		return nil, err
	}
	medAgg, err := aggregateClinical(src.Medications, "medications", "MEDICATION")
	if err != nil {
		return nil, err
	}
	logf("  aggregated: %d procedure, %d condition, %d medication encounter groups\n",
		procAgg.NumRows(), condAgg.NumRows(), medAgg.NumRows())

	steps := []joinStep{
		{
			name:      "claims",
			right:     src.Claims.Rename(claimRenames),
			leftKeys:  []string{"CLAIMID"},
			rightKeys: []string{"CLAIM_ID"},
			suffix:    "_y",
		},
		{
			name:      "encounters",
			right:     src.Encounters.Rename(encounterRenames),
			leftKeys:  []string{"CLAIM_APPOINTMENTID"},
			rightKeys: []string{"ENCOUNTER_ID"},
			suffix:    "_ENC",
		},
		{
			name:      "patients",
			right:     prefixColumns(src.Patients, "PATIENT_", "Id"),
			leftKeys:  []string{"CLAIM_PATIENTID"},
			rightKeys: []string{"Id"},
			suffix:    "_PAT",
			dropAfter: []string{"Id"},
		},
		{
			// Transaction-level PROVIDERID is the authoritative provider for
			// the join; CLAIM_PROVIDERID and CLAIM_SUPERVISINGPROVIDERID are
			// carried through unjoined. Known asymmetry, preserved from the
			// original pipeline.
			name:      "providers",
			right:     prefixColumns(src.Providers, "PROVIDER_", "Id"),
			leftKeys:  []string{"PROVIDERID"},
			rightKeys: []string{"Id"},
			suffix:    "_PROV",
			dropAfter: []string{"Id"},
		},
		{
			name:      "organizations",
			right:     prefixColumns(src.Organizations, "ORG_", "Id"),
			leftKeys:  []string{"ORGANIZATION"},
			rightKeys: []string{"Id"},
			suffix:    "_ORG",
			dropAfter: []string{"Id"},
		},
		{
			name:      "payers",
			right:     prefixColumns(src.Payers, "PAYER_", "Id"),
			leftKeys:  []string{"PAYER"},
			rightKeys: []string{"Id"},
			suffix:    "_PAYER",
			dropAfter: []string{"Id"},
		},
		{
			name:      "procedures",
			right:     procAgg,
			leftKeys:  []string{"CLAIM_PATIENTID", "ENCOUNTER_ID"},
			rightKeys: []string{"PATIENT", "ENCOUNTER"},
			suffix:    "_PROC",
			dropAfter: []string{"PATIENT", "ENCOUNTER"},
		},
		{
			name:      "conditions",
			right:     condAgg,
			leftKeys:  []string{"CLAIM_PATIENTID", "ENCOUNTER_ID"},
			rightKeys: []string{"PATIENT", "ENCOUNTER"},
			suffix:    "_COND",
			dropAfter: []string{"PATIENT", "ENCOUNTER"},
		},
		{
			name:      "medications",
			right:     medAgg,
			leftKeys:  []string{"CLAIM_PATIENTID", "ENCOUNTER_ID"},
			rightKeys: []string{"PATIENT", "ENCOUNTER"},
			suffix:    "_MED",
			dropAfter: []string{"PATIENT", "ENCOUNTER"},
		},
	}

	result := src.Transactions
	leftName := "claims_transactions"
	for _, step := range steps {
		result, err = leftJoin(result, leftName, step.right, step.name, step.leftKeys, step.rightKeys, step.suffix)
		if err != nil {
			return nil, err
		}
		if len(step.dropAfter) > 0 {
			result = result.DropColumns(step.dropAfter...)
		}
		logf("  after %s join: %d rows, %d columns\n", step.name, result.NumRows(), result.NumCols())
		leftName = "result"
	}

	result, dropped := resolveCollisions(result)
	if len(dropped) > 0 {
		logf("  removed %d conflict-marker columns: %s\n", len(dropped), strings.Join(dropped, ", "))
	}

	return result, nil
}

// leftJoin joins right onto left by the given key pair. Every left row
// appears exactly once in the output: matches carry the right row's cells,
// misses carry blanks. Right columns whose names already exist on the left
// get the conflict suffix appended.
//
// The right key must be unique; duplicates are a data-integrity condition
// surfaced as KeyCardinalityError before any row is joined.
func leftJoin(left *Table, leftName string, right *Table, rightName string, leftKeys, rightKeys []string, suffix string) (*Table, error) {
	if err := left.requireColumns(leftName, leftKeys...); err != nil {
		return nil, err
	}
	if err := right.requireColumns(rightName, rightKeys...); err != nil {
		return nil, err
	}

	index, err := buildUniqueIndex(right, rightName, rightKeys)
	if err != nil {
		return nil, err
	}

	leftKeyIdx := make([]int, len(leftKeys))
	for i, k := range leftKeys {
		leftKeyIdx[i] = left.ColumnIndex(k)
	}

	leftSet := make(map[string]bool, left.NumCols())
	for _, c := range left.Columns() {
		leftSet[c] = true
	}

	cols := make([]string, 0, left.NumCols()+right.NumCols())
	cols = append(cols, left.Columns()...)
	for _, c := range right.Columns() {
		if leftSet[c] {
			c += suffix
		}
		cols = append(cols, c)
	}

	rows := make([][]string, left.NumRows())
	rightWidth := right.NumCols()
	for i := 0; i < left.NumRows(); i++ {
		lrow := left.Row(i)
		out := make([]string, 0, len(cols))
		out = append(out, lrow...)

		if ri, ok := index[compositeKey(lrow, leftKeyIdx)]; ok {
			out = append(out, right.Row(ri)...)
		} else {
			out = out[:len(lrow)+rightWidth]
		}
		rows[i] = out
	}

	return NewTable(cols, rows), nil
}

// buildUniqueIndex maps each composite key value of the right table to its
// single row, failing on the first duplicate.
func buildUniqueIndex(t *Table, tableName string, keys []string) (map[string]int, error) {
	keyIdx := make([]int, len(keys))
	for i, k := range keys {
		keyIdx[i] = t.ColumnIndex(k)
	}

	index := make(map[string]int, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := compositeKey(t.Row(i), keyIdx)
		if _, dup := index[key]; dup {
			return nil, &KeyCardinalityError{
				Table: tableName,
				Key:   strings.Join(keys, ","),
				Value: strings.ReplaceAll(key, "\x00", ","),
			}
		}
		index[key] = i
	}
	return index, nil
}

func compositeKey(row []string, idx []int) string {
	if len(idx) == 1 {
		return row[idx[0]]
	}
	var b strings.Builder
	for i, ci := range idx {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(row[ci])
	}
	return b.String()
}

// resolveCollisions drops every column whose name ends in a conflict-marker
// suffix, returning the cleaned table and the dropped names. Columns not
// matching a marker are never touched, so legitimate data cannot be lost
// here.
func resolveCollisions(t *Table) (*Table, []string) {
	var dropped []string
	for _, c := range t.Columns() {
		for _, s := range conflictSuffixes {
			if strings.HasSuffix(c, s) {
				dropped = append(dropped, c)
				break
			}
		}
	}
	if len(dropped) == 0 {
		return t, nil
	}
	return t.DropColumns(dropped...), dropped
}
