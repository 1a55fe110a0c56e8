package main

// prefixColumns renames every column of a dimension table except the key
// column to prefix+name, keeping the key joinable under its original name.
// Prefixing the four dimensions (PATIENT_, PROVIDER_, ORG_, PAYER_) before
// joining makes post-join name collisions structurally impossible between
// them; the collision resolver stays a no-op in the normal case.
//
// Only ever applied to raw loaded tables, once per dimension.
func prefixColumns(t *Table, prefix, key string) *Table {
	mapping := make(map[string]string, t.NumCols())
	for _, c := range t.Columns() {
		if c == key {
			continue
		}
		mapping[c] = prefix + c
	}
	return t.Rename(mapping)
}
