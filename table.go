package tableview

// HeaderProvider returns the header rows of a table.
//
// An array like:
//
//	[][]string{{"Forename", "Surname"}}
//
// is rendered as:
//
//	<thead><tr><th>Forename</th><th>Surname</th></tr></thead>
type HeaderProvider interface {
	Header() [][]string
}

// RowProjector returns the cell values of the table row
// representing record.
type RowProjector interface {
	RowValues(record *Record) []string
}

// Table combines the required extension points of a rendered table.
type Table interface {
	HeaderProvider
	RowProjector
}

// FieldProjector can optionally be implemented by a Table
// to customize the rows of a table bound to a single Record,
// where every field of the record is rendered as one row.
type FieldProjector interface {
	FieldValues(field Field) []string
}

// HeaderFunc implements HeaderProvider with a function.
type HeaderFunc func() [][]string

func (f HeaderFunc) Header() [][]string { return f() }

// RowValuesFunc implements RowProjector with a function.
type RowValuesFunc func(record *Record) []string

func (f RowValuesFunc) RowValues(record *Record) []string { return f(record) }

// FieldValuesFunc implements FieldProjector with a function.
type FieldValuesFunc func(field Field) []string

func (f FieldValuesFunc) FieldValues(field Field) []string { return f(field) }

// TableFuncs returns a Table using the passed functions.
func TableFuncs(header HeaderFunc, rowValues RowValuesFunc) Table {
	return tableFuncs{header, rowValues}
}

type tableFuncs struct {
	HeaderFunc
	RowValuesFunc
}

// KeyValueFieldProjector renders a field as key and formatted value.
// It is used for Record bound tables that don't implement FieldProjector.
var KeyValueFieldProjector FieldValuesFunc = func(field Field) []string {
	return []string{field.Key, FormatValue(field.Value, "")}
}

// implemented reports if an extension point
// is neither a nil interface nor a nil function.
func implemented(extensionPoint any) bool {
	switch f := extensionPoint.(type) {
	case nil:
		return false
	case HeaderFunc:
		return f != nil
	case RowValuesFunc:
		return f != nil
	case FieldValuesFunc:
		return f != nil
	}
	return true
}
