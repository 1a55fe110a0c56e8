package main

import "strings"

// Clinical fact tables (procedures, conditions, medications) share a shape:
// many rows per (PATIENT, ENCOUNTER), each carrying a CODE and DESCRIPTION.
// aggregateClinical collapses one to a single row per encounter so the join
// pipeline can attach the full clinical picture to every transaction without
// fanning rows out.

const listSep = "|"

// aggregateClinical groups a fact table by (PATIENT, ENCOUNTER) and
// concatenates the non-blank CODE and DESCRIPTION values of each group with
// "|", preserving input row order within a group and first-appearance order
// across groups. Rows with a blank PATIENT or ENCOUNTER are dropped, never
// grouped under the empty key. The output columns are named for the fact
// kind: <kind>_CODES and <kind>_DESCRIPTIONS.
//
// An empty input yields an empty aggregate with the correct columns, never
// an error, so downstream left joins still succeed with all-null lists.
func aggregateClinical(t *Table, table, kind string) (*Table, error) {
	cols := []string{"PATIENT", "ENCOUNTER", kind + "_CODES", kind + "_DESCRIPTIONS"}

	if t.NumRows() == 0 {
		return NewTable(cols, nil), nil
	}
	if err := t.requireColumns(table, "PATIENT", "ENCOUNTER", "CODE", "DESCRIPTION"); err != nil {
		return nil, err
	}

	patIdx := t.ColumnIndex("PATIENT")
	encIdx := t.ColumnIndex("ENCOUNTER")
	codeIdx := t.ColumnIndex("CODE")
	descIdx := t.ColumnIndex("DESCRIPTION")

	type group struct {
		patient, encounter string
		codes, descs       []string
	}

	var order []*group
	groups := make(map[string]*group)

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		// A blank patient or encounter is an unkeyable fact. Grouping it
		// under the empty key would attach its codes to every
		// encounter-less transaction of the same patient downstream.
		if row[patIdx] == "" || row[encIdx] == "" {
			continue
		}
		key := row[patIdx] + "\x00" + row[encIdx]
		g, ok := groups[key]
		if !ok {
			g = &group{patient: row[patIdx], encounter: row[encIdx]}
			groups[key] = g
			order = append(order, g)
		}
		if v := row[codeIdx]; v != "" {
			g.codes = append(g.codes, v)
		}
		if v := row[descIdx]; v != "" {
			g.descs = append(g.descs, v)
		}
	}

	rows := make([][]string, len(order))
	for i, g := range order {
		rows[i] = []string{
			g.patient,
			g.encounter,
			strings.Join(g.codes, listSep),
			strings.Join(g.descs, listSep),
		}
	}
	return NewTable(cols, rows), nil
}
