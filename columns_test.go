package tableview

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsFromKeys(t *testing.T) {
	cols := ColumnsFromKeys("forename", "last_name", "DateOfBirth")
	assert.Equal(t, [][]string{{"forename", "last name", "Date Of Birth"}}, cols.Header())
	assert.NoError(t, cols.Validate())
}

func TestColumns_RowValues(t *testing.T) {
	born := time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)
	height := 1.62
	cols := Columns{
		{Title: "Name", Field: "name"},
		{Title: "Born", Field: "born", Formatter: FormatterFunc(func(v reflect.Value) (string, error) {
			return v.Interface().(time.Time).Format("2006-01-02"), nil
		})},
		{Title: "Height", Field: "height", Format: "%.1f m"},
		{Title: "Missing", Field: "missing"},
		{Title: "Unsupported", Field: "name", Formatter: UnsupportedFormatter{}},
	}
	r := NewRecord("1", F("name", "Ada"), F("born", born), F("height", &height))

	assert.Equal(t, []string{"Ada", "1815-12-10", "1.6 m", "", "Ada"}, cols.RowValues(r))
}

func TestColumns_Validate(t *testing.T) {
	assert.Error(t, Columns{{Title: "No Field"}}.Validate())
	assert.Error(t, Columns{{Field: "a"}, {Field: "a"}}.Validate())
	assert.NoError(t, Columns{}.Validate())
}

func TestFormatValue(t *testing.T) {
	var nilPtr *int
	one := 1
	onePtr := &one
	tests := []struct {
		name   string
		value  any
		format string
		want   string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "nil pointer", value: nilPtr, want: ""},
		{name: "empty struct", value: struct{}{}, want: ""},
		{name: "string", value: "Ada", want: "Ada"},
		{name: "int", value: 42, want: "42"},
		{name: "pointer", value: &one, want: "1"},
		{name: "pointer pointer", value: &onePtr, want: "1"},
		{name: "format", value: 3.14159, format: "%.2f", want: "3.14"},
		{name: "bool", value: true, want: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.format))
		})
	}
}

func TestFormatReflectValue_Error(t *testing.T) {
	failing := FormatterFunc(func(reflect.Value) (string, error) { return "", errors.New("failed") })
	_, err := FormatReflectValue(reflect.ValueOf(1), failing)
	require.Error(t, err)

	col := Column{Field: "x", Formatter: failing}
	assert.Equal(t, "%!(failed)", col.FormatRecord(NewRecord("1", F("x", 1))))
}

func TestNewCollectionFromStrings(t *testing.T) {
	rows := [][]string{
		{"", " "},
		{" id", "name ", "city"},
		{"a", "Ada", "London"},
		{"", "", ""},
		{"g", "Grace"},
	}

	c, cols, err := NewCollectionFromStrings(rows, "id")
	require.NoError(t, err)
	if diff := cmp.Diff(Columns{{Title: "id", Field: "id"}, {Title: "name", Field: "name"}, {Title: "city", Field: "city"}}, cols, cmp.Comparer(func(a, b Formatter) bool { return a == b })); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.At(0).ID())
	assert.Equal(t, []Field{{"id", "a"}, {"name", "Ada"}, {"city", "London"}}, c.At(0).Pairs())
	assert.Equal(t, []Field{{"id", "g"}, {"name", "Grace"}, {"city", ""}}, c.Get("g").Pairs())

	c, _, err = NewCollectionFromStrings(rows, "")
	require.NoError(t, err)
	assert.Equal(t, "1", c.At(0).ID())
	assert.Equal(t, "2", c.At(1).ID())

	_, _, err = NewCollectionFromStrings(rows, "missing")
	require.ErrorIs(t, err, ErrMissingIDColumn)

	_, _, err = NewCollectionFromStrings([][]string{{"id"}, {"x"}, {"x"}}, "id")
	require.Error(t, err, "duplicate ID")

	c, cols, err = NewCollectionFromStrings(nil, "id")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, cols)
}
