package tableview

import (
	"fmt"
	"html/template"
	"strings"
)

var DefaultTemplates = Templates{
	Head:     template.Must(template.New("head").Parse("<thead>{{.Content}}</thead>")),
	Body:     template.Must(template.New("body").Parse("<tbody>{{.Content}}</tbody>")),
	Row:      template.Must(template.New("row").Parse("<tr>{{.Content}}</tr>")),
	Cell:     template.Must(template.New("cell").Parse("<td>{{.Content}}</td>")),
	HeadCell: template.Must(template.New("headCell").Parse("<th>{{.Content}}</th>")),
}

// Templates used to assemble the table markup.
// Every template is executed with a TemplateContext.
type Templates struct {
	Head     *template.Template
	Body     *template.Template
	Row      *template.Template
	Cell     *template.Template
	HeadCell *template.Template
}

// TemplateContext is the data passed to every template.
//
// Content is a string for Cell and HeadCell templates,
// which html/template escapes, or template.HTML for
// already assembled markup and sanitized raw cells.
type TemplateContext struct {
	Content any
	// Row is the index of the row within head or body, -1 for Head and Body.
	Row int
	// Col is the index of the cell within its row, -1 for anything but cells.
	Col int
}

// WithDefaults returns a copy of t where
// nil templates are replaced by DefaultTemplates.
func (t Templates) WithDefaults() Templates {
	if t.Head == nil {
		t.Head = DefaultTemplates.Head
	}
	if t.Body == nil {
		t.Body = DefaultTemplates.Body
	}
	if t.Row == nil {
		t.Row = DefaultTemplates.Row
	}
	if t.Cell == nil {
		t.Cell = DefaultTemplates.Cell
	}
	if t.HeadCell == nil {
		t.HeadCell = DefaultTemplates.HeadCell
	}
	return t
}

func execute(t *template.Template, data TemplateContext) (template.HTML, error) {
	var b strings.Builder
	err := t.Execute(&b, data)
	if err != nil {
		return "", fmt.Errorf("executing %s template: %w", t.Name(), err)
	}
	return template.HTML(b.String()), nil //#nosec G203 -- html/template output
}

func joinHTML(parts []template.HTML) template.HTML {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(string(part))
	}
	return template.HTML(b.String()) //#nosec G203
}
