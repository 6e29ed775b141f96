package domain

// MetadataValue is one table cell. When the cell content was exactly one
// hyperlink the URL is preserved alongside the link text; plain cells
// carry only Text. The distinction is made per cell, not per table.
type MetadataValue struct {
	Text string
	URL  string
}

// IsLink reports whether the cell content was a hyperlink.
func (v MetadataValue) IsLink() bool {
	return v.URL != ""
}

// MetadataField is one key/value pair of a table row. Keys are the
// column headers normalized to lower snake case.
type MetadataField struct {
	Key   string
	Value MetadataValue
}

// MetadataRow is one table row as an ordered list of fields.
type MetadataRow []MetadataField

// Get returns the value for a key within the row.
func (r MetadataRow) Get(key string) (MetadataValue, bool) {
	for _, field := range r {
		if field.Key == key {
			return field.Value, true
		}
	}
	return MetadataValue{}, false
}

// MetadataTable is an ordered set of rows extracted from a
// [details=NAME] marker or a collapsible block. Both source forms
// normalize to the same shape.
type MetadataTable struct {
	// Name is the NAME from the [details=NAME] marker or the summary
	// text of the collapsible block.
	Name string

	Rows []MetadataRow
}

// Empty reports whether the table holds no rows.
func (t MetadataTable) Empty() bool {
	return len(t.Rows) == 0
}

// Lookup returns the first value found for a key across all rows.
// Key/value style tables hold one field per row, so this doubles as a
// plain map lookup for them.
func (t MetadataTable) Lookup(key string) (MetadataValue, bool) {
	for _, row := range t.Rows {
		if value, ok := row.Get(key); ok {
			return value, true
		}
	}
	return MetadataValue{}, false
}

// Keys returns every distinct field key in table order.
func (t MetadataTable) Keys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, row := range t.Rows {
		for _, field := range row {
			if _, ok := seen[field.Key]; ok {
				continue
			}
			seen[field.Key] = struct{}{}
			keys = append(keys, field.Key)
		}
	}
	return keys
}
