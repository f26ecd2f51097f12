package tableview

import (
	"fmt"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// DefaultSanitizer returns the bluemonday.UGCPolicy
// used for raw columns if no other policy was configured.
func DefaultSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

// Renderer renders tables as HTML using the extension points
// of a Table and a set of Templates.
//
// Renderer is immutable after creation - all With* methods return
// a new Renderer instance with the modified configuration.
//
// HTML Escaping:
// All header labels and cell values are escaped by html/template.
// Values of raw columns are interpreted as HTML
// and sanitized with a bluemonday policy instead.
type Renderer struct {
	header     HeaderProvider
	rows       RowProjector
	fields     FieldProjector
	tagName    string
	className  string
	templates  Templates
	rawColumns map[int]bool
	sanitizer  *bluemonday.Policy
	logger     *zap.Logger
}

// NewRenderer creates a Renderer for table.
//
// Default configuration:
//   - "table" as tag name of the mounted element
//   - "table" as class name of the mounted element
//   - DefaultTemplates
//   - KeyValueFieldProjector for Record bound tables
//     unless table implements FieldProjector
//   - Raw columns of table if it is of type Columns
//   - No logging
//
// A nil table is valid but every render call will
// return ErrNotImplemented until the extension points
// are set with WithHeader and WithRowProjector.
func NewRenderer(table Table) *Renderer {
	r := &Renderer{
		tagName:    "table",
		className:  "table",
		templates:  DefaultTemplates,
		rawColumns: make(map[int]bool),
		logger:     zap.NewNop(),
	}
	switch t := table.(type) {
	case nil:
	case tableFuncs:
		r.header = t.HeaderFunc
		r.rows = t.RowValuesFunc
	case Columns:
		r.header = t
		r.rows = t
		for _, col := range t.RawColumns() {
			r.rawColumns[col] = true
		}
	default:
		r.header = t
		r.rows = t
	}
	if fields, ok := table.(FieldProjector); ok {
		r.fields = fields
	}
	return r
}

func (r *Renderer) clone() *Renderer {
	c := new(Renderer)
	*c = *r
	return c
}

// WithTagName returns a new renderer using tagName
// for the mounted element of bound views.
// Custom tag names usually also need custom Templates,
// because markup is parsed in the context of the element.
func (r *Renderer) WithTagName(tagName string) *Renderer {
	mod := r.clone()
	mod.tagName = tagName
	return mod
}

// WithClassName returns a new renderer using className
// as class attribute of the mounted element.
// An empty className renders no class attribute.
func (r *Renderer) WithClassName(className string) *Renderer {
	mod := r.clone()
	mod.className = className
	return mod
}

// WithTemplates returns a new renderer using templates.
// Nil templates are replaced by the DefaultTemplates.
func (r *Renderer) WithTemplates(templates Templates) *Renderer {
	mod := r.clone()
	mod.templates = templates.WithDefaults()
	return mod
}

// WithHeader returns a new renderer with the passed HeaderProvider.
func (r *Renderer) WithHeader(header HeaderProvider) *Renderer {
	mod := r.clone()
	mod.header = header
	return mod
}

// WithRowProjector returns a new renderer with the passed RowProjector.
func (r *Renderer) WithRowProjector(rows RowProjector) *Renderer {
	mod := r.clone()
	mod.rows = rows
	return mod
}

// WithFieldProjector returns a new renderer with the passed FieldProjector
// used for tables bound to a single Record.
func (r *Renderer) WithFieldProjector(fields FieldProjector) *Renderer {
	mod := r.clone()
	mod.fields = fields
	return mod
}

// WithRawColumn returns a new renderer that interprets the values
// of the column as HTML which will be sanitized instead of escaped.
// Raw columns only apply to the rows of a Collection,
// the fields of a bound Record are always escaped.
func (r *Renderer) WithRawColumn(columnIndex int) *Renderer {
	mod := r.clone()
	mod.rawColumns = make(map[int]bool, len(r.rawColumns)+1)
	for col := range r.rawColumns {
		mod.rawColumns[col] = true
	}
	mod.rawColumns[columnIndex] = true
	return mod
}

// WithSanitizer returns a new renderer using policy
// to sanitize raw column values.
// Passing nil restores DefaultSanitizer.
func (r *Renderer) WithSanitizer(policy *bluemonday.Policy) *Renderer {
	mod := r.clone()
	mod.sanitizer = policy
	return mod
}

// WithLogger returns a new renderer logging to logger.
// Passing nil disables logging.
func (r *Renderer) WithLogger(logger *zap.Logger) *Renderer {
	mod := r.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	mod.logger = logger
	return mod
}

func (r *Renderer) TagName() string { return r.tagName }

func (r *Renderer) ClassName() string { return r.className }

func (r *Renderer) Logger() *zap.Logger { return r.logger }

func (r *Renderer) policy() *bluemonday.Policy {
	if r.sanitizer != nil {
		return r.sanitizer
	}
	return DefaultSanitizer()
}

func (r *Renderer) checkHeader() error {
	if !implemented(r.header) {
		return fmt.Errorf("%w: Header() of %T", ErrNotImplemented, r.header)
	}
	return nil
}

func (r *Renderer) checkRows() error {
	if !implemented(r.rows) {
		return fmt.Errorf("%w: RowValues(record) of %T", ErrNotImplemented, r.rows)
	}
	return nil
}

// checkExtensionPoints returns ErrNotImplemented
// if an extension point needed for source is missing.
func (r *Renderer) checkExtensionPoints(source Source) error {
	if err := r.checkHeader(); err != nil {
		return err
	}
	if source.Kind() == SourceCollection {
		return r.checkRows()
	}
	return nil
}

// RenderHeader renders the rows of the table header
// as head cells wrapped in the Head template.
func (r *Renderer) RenderHeader() (template.HTML, error) {
	if err := r.checkHeader(); err != nil {
		return "", err
	}
	header := r.header.Header()
	rows := make([]template.HTML, len(header))
	for rowIndex, labels := range header {
		cells := make([]template.HTML, len(labels))
		for col, label := range labels {
			cell, err := execute(r.templates.HeadCell, TemplateContext{Content: label, Row: rowIndex, Col: col})
			if err != nil {
				return "", err
			}
			cells[col] = cell
		}
		row, err := execute(r.templates.Row, TemplateContext{Content: joinHTML(cells), Row: rowIndex, Col: -1})
		if err != nil {
			return "", err
		}
		rows[rowIndex] = row
	}
	return execute(r.templates.Head, TemplateContext{Content: joinHTML(rows), Row: -1, Col: -1})
}

// RenderRow renders the values returned by the RowProjector for record
// as one row, where index is the position of the row within the body.
func (r *Renderer) RenderRow(record *Record, index int) (template.HTML, error) {
	if err := r.checkRows(); err != nil {
		return "", err
	}
	return r.renderValues(r.rows.RowValues(record), index, r.rawColumns)
}

// RenderField renders a field of a Record bound table as one row.
// All values are escaped because raw columns describe
// the columns of records, not of fields.
func (r *Renderer) RenderField(field Field, index int) (template.HTML, error) {
	var projector FieldProjector = KeyValueFieldProjector
	if implemented(r.fields) {
		projector = r.fields
	}
	return r.renderValues(projector.FieldValues(field), index, nil)
}

func (r *Renderer) renderValues(values []string, rowIndex int, rawColumns map[int]bool) (template.HTML, error) {
	cells := make([]template.HTML, len(values))
	for col, value := range values {
		var content any = value
		if rawColumns[col] {
			content = template.HTML(r.policy().Sanitize(value)) //#nosec G203 -- sanitized
		}
		cell, err := execute(r.templates.Cell, TemplateContext{Content: content, Row: rowIndex, Col: col})
		if err != nil {
			return "", err
		}
		cells[col] = cell
	}
	return execute(r.templates.Row, TemplateContext{Content: joinHTML(cells), Row: rowIndex, Col: -1})
}

// RenderBody renders the rows of source wrapped in the Body template.
//
// A Collection is rendered with one row per record in collection order.
// A Record is rendered with one row per field in key order.
// An invalid source results in an ErrInvalidBinding error.
func (r *Renderer) RenderBody(source Source) (template.HTML, error) {
	var rows []template.HTML
	switch source.Kind() {
	case SourceCollection:
		return r.renderRecordsBody(source.Collection().Records())
	case SourceRecord:
		fields := source.Record().Pairs()
		rows = make([]template.HTML, len(fields))
		for i, field := range fields {
			row, err := r.RenderField(field, i)
			if err != nil {
				return "", err
			}
			rows[i] = row
		}
	default:
		return "", fmt.Errorf("rendering body: %w", ErrInvalidBinding)
	}
	return execute(r.templates.Body, TemplateContext{Content: joinHTML(rows), Row: -1, Col: -1})
}

func (r *Renderer) renderRecordsBody(records []*Record) (template.HTML, error) {
	rows := make([]template.HTML, len(records))
	for i, record := range records {
		row, err := r.RenderRow(record, i)
		if err != nil {
			return "", err
		}
		rows[i] = row
	}
	return execute(r.templates.Body, TemplateContext{Content: joinHTML(rows), Row: -1, Col: -1})
}

// RenderTable renders the header and body of model,
// which has to be a *Collection, *Record or Source,
// without the surrounding element.
func (r *Renderer) RenderTable(model any) (template.HTML, error) {
	source, err := NewSource(model)
	if err != nil {
		return "", err
	}
	var records []*Record
	if source.Kind() == SourceCollection {
		records = source.Collection().Records()
	}
	return r.renderTable(source, records)
}

// renderTable renders source, where records is used
// as snapshot of the membership of a Collection source.
func (r *Renderer) renderTable(source Source, records []*Record) (template.HTML, error) {
	if err := r.checkExtensionPoints(source); err != nil {
		return "", err
	}
	head, err := r.RenderHeader()
	if err != nil {
		return "", err
	}
	var body template.HTML
	if source.Kind() == SourceCollection {
		body, err = r.renderRecordsBody(records)
	} else {
		body, err = r.RenderBody(source)
	}
	if err != nil {
		return "", err
	}
	return head + body, nil
}
