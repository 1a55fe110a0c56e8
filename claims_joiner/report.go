package main

import (
	"fmt"
	"strings"
)

// Column categories downstream consumers rely on. A column can land in more
// than one category (CLAIM_PATIENTID is both claim and patient context);
// the counts describe the output, they do not partition it.
var columnCategories = []struct {
	name  string
	match func(col string) bool
}{
	{"Transaction", func(c string) bool {
		switch c {
		case "ID", "CLAIMID", "TYPE", "AMOUNT", "PAYMENTS", "ADJUSTMENTS":
			return true
		}
		return strings.Contains(c, "TRANS")
	}},
	{"Claim", func(c string) bool {
		return strings.Contains(c, "CLAIM") || strings.Contains(c, "DIAGNOSIS") || strings.Contains(c, "STATUS")
	}},
	{"Encounter", func(c string) bool {
		return strings.Contains(c, "ENCOUNTER") || strings.Contains(c, "APPOINTMENT")
	}},
	{"Patient", func(c string) bool { return strings.Contains(c, "PATIENT") }},
	{"Provider", func(c string) bool { return strings.Contains(c, "PROVIDER") }},
	{"Organization", func(c string) bool { return strings.Contains(c, "ORG_") }},
	{"Payer", func(c string) bool { return strings.Contains(c, "PAYER") }},
	{"Clinical", func(c string) bool {
		return strings.Contains(c, "PROCEDURE") || strings.Contains(c, "CONDITION") || strings.Contains(c, "MEDICATION")
	}},
}

type categoryCount struct {
	Name  string
	Count int
}

// categoryCounts tallies output columns per category, in report order.
// Categories with no columns are omitted.
func categoryCounts(t *Table) []categoryCount {
	out := make([]categoryCount, 0, len(columnCategories))
	for _, cat := range columnCategories {
		n := 0
		for _, c := range t.Columns() {
			if cat.match(c) {
				n++
			}
		}
		if n > 0 {
			out = append(out, categoryCount{cat.name, n})
		}
	}
	return out
}

// printReport writes the final summary block: totals, artifact size, and
// per-category column counts.
func printReport(t *Table, outputPath string, outputBytes int64) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Printf("Output file:   %s\n", outputPath)
	fmt.Printf("Total rows:    %d\n", t.NumRows())
	fmt.Printf("Total columns: %d\n", t.NumCols())
	if outputBytes > 0 {
		fmt.Printf("File size:     %.2f MB\n", float64(outputBytes)/1024/1024)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println("Column categories:")
	fmt.Println(strings.Repeat("-", 60))
	for _, cc := range categoryCounts(t) {
		fmt.Printf("  %-13s %d columns\n", cc.Name+":", cc.Count)
	}
}
