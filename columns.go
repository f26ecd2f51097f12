package tableview

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Column declares a table column displaying one record field.
type Column struct {
	// Title is the header label of the column.
	Title string `yaml:"title"`
	// Field is the record key of the displayed value.
	Field string `yaml:"field"`
	// Format is an optional fmt.Sprintf format for the value.
	Format string `yaml:"format,omitempty"`
	// Raw marks values as HTML that will be sanitized
	// instead of escaped.
	Raw bool `yaml:"raw,omitempty"`
	// Formatter overrides Format if not nil.
	Formatter Formatter `yaml:"-"`
}

// Columns is a Table with a single header row
// of the column titles.
type Columns []Column

var _ Table = Columns(nil)

// ColumnsFromKeys returns Columns for the passed record keys
// using SpacePascalCase of the key as title.
func ColumnsFromKeys(keys ...string) Columns {
	cols := make(Columns, len(keys))
	for i, key := range keys {
		cols[i] = Column{Title: SpacePascalCase(key), Field: key}
	}
	return cols
}

// Header implements HeaderProvider.
func (cols Columns) Header() [][]string {
	return [][]string{cols.Titles()}
}

// Titles returns the column titles.
func (cols Columns) Titles() []string {
	titles := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = col.Title
	}
	return titles
}

// RowValues implements RowProjector.
func (cols Columns) RowValues(record *Record) []string {
	values := make([]string, len(cols))
	for i, col := range cols {
		values[i] = col.FormatRecord(record)
	}
	return values
}

// RawColumns returns the indices of the columns marked as Raw.
func (cols Columns) RawColumns() []int {
	var indices []int
	for i, col := range cols {
		if col.Raw {
			indices = append(indices, i)
		}
	}
	return indices
}

// Validate checks that every column has a Field
// and that no Field is used twice.
func (cols Columns) Validate() error {
	fields := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.Field == "" {
			return fmt.Errorf("column %d %q has no field", i, col.Title)
		}
		if prev, ok := fields[col.Field]; ok {
			return fmt.Errorf("field %q used by column %d and %d", col.Field, prev, i)
		}
		fields[col.Field] = i
	}
	return nil
}

// FormatRecord returns the formatted value of the column's field.
func (col *Column) FormatRecord(record *Record) string {
	value := record.Get(col.Field)
	if col.Formatter == nil {
		return FormatValue(value, col.Format)
	}
	str, err := FormatReflectValue(reflect.ValueOf(value), col.Formatter)
	if err != nil {
		return fmt.Sprintf("%%!(%s)", err)
	}
	return str
}

// NewCollectionFromStrings returns a Collection and matching Columns
// for string rows where the first non empty row is the header row.
// Header titles are trimmed and used as record keys.
// Record IDs are taken from idColumn if not empty,
// else the 1-based row number is used.
func NewCollectionFromStrings(rows [][]string, idColumn string) (*Collection, Columns, error) {
	rows = RemoveEmptyStringRows(rows)
	if len(rows) == 0 {
		return NewCollection(), nil, nil
	}
	keys := make([]string, len(rows[0]))
	for i, title := range rows[0] {
		keys[i] = strings.TrimSpace(title)
	}
	idIndex := -1
	if idColumn != "" {
		for i, key := range keys {
			if key == idColumn {
				idIndex = i
				break
			}
		}
		if idIndex == -1 {
			return nil, nil, fmt.Errorf("%w %q in %q", ErrMissingIDColumn, idColumn, keys)
		}
	}

	records := make([]*Record, 0, len(rows)-1)
	ids := make(map[string]struct{}, len(rows)-1)
	for rowIndex, row := range rows[1:] {
		id := strconv.Itoa(rowIndex + 1)
		if idIndex != -1 && idIndex < len(row) {
			id = strings.TrimSpace(row[idIndex])
		}
		if _, dup := ids[id]; dup {
			return nil, nil, fmt.Errorf("duplicate record ID %q in row %d", id, rowIndex+1)
		}
		ids[id] = struct{}{}
		fields := make([]Field, len(keys))
		for col, key := range keys {
			var value string
			if col < len(row) {
				value = row[col]
			}
			fields[col] = Field{Key: key, Value: value}
		}
		records = append(records, NewRecord(id, fields...))
	}

	cols := make(Columns, len(keys))
	for i, key := range keys {
		cols[i] = Column{Title: key, Field: key}
	}
	return NewCollection(records...), cols, nil
}
