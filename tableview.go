// Package tableview renders observable records as HTML tables.
//
// A Renderer combines the extension points of a Table
// (HeaderProvider and RowProjector) with Templates.
// Binding a Renderer to a Collection or a Record returns a TableView
// that keeps the markup of its mounted Element in sync with
// the change notifications of the bound source.
//
// Example usage:
//
//	people := tableview.NewCollection(
//	    tableview.NewRecord("1", tableview.F("forename", "Ada"), tableview.F("surname", "Lovelace")),
//	)
//	view, err := tableview.NewRenderer(tableview.ColumnsFromKeys("forename", "surname")).Bind(people)
//	if err != nil {
//	    return err
//	}
//	defer view.Close()
//	_, err = view.Render()
//	people.Add(tableview.NewRecord("2", tableview.F("forename", "Grace"), tableview.F("surname", "Hopper")))
//	markup, err := view.HTML()
package tableview

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// TableView is a Renderer bound to a Source and mounted on an Element.
//
// A view bound to a Collection appends a row for every added record,
// removes the row of every removed record and rebuilds the body on reset.
// A view bound to a Record re-renders completely on every change.
//
// Notifications are handled synchronously in the goroutine
// that emitted them. Errors of handlers called by notifications
// are logged because the notifying Collection or Record
// has no way to receive them.
type TableView struct {
	renderer *Renderer
	source   Source
	logger   *zap.Logger

	mu       sync.Mutex
	element  *Element
	rendered bool
	rowNodes map[*Record][]*html.Node
	subs     []*Subscription
	closed   bool
}

// Bind resolves model, which has to be a *Collection, *Record or Source,
// and returns a TableView subscribed to its notifications.
// Any other model results in an ErrInvalidBinding error.
func (r *Renderer) Bind(model any) (*TableView, error) {
	source, err := NewSource(model)
	if err != nil {
		return nil, fmt.Errorf("binding table: %w", err)
	}
	v := &TableView{
		renderer: r,
		source:   source,
		logger:   r.logger.With(zap.Stringer("source", source)),
		element:  NewElement(r.tagName, r.className),
		rowNodes: make(map[*Record][]*html.Node),
	}
	switch source.Kind() {
	case SourceCollection:
		c := source.Collection()
		v.subs = append(v.subs,
			c.On(EventAdd, func(e Event) { v.logHandlerError(e, v.HandleAdd(e.Record)) }),
			c.On(EventRemove, func(e Event) { v.logHandlerError(e, v.HandleRemove(e.Record)) }),
			c.On(EventReset, func(e Event) { v.logHandlerError(e, v.HandleReset()) }),
		)
	case SourceRecord:
		v.subs = append(v.subs,
			source.Record().On(EventChange, func(e Event) { v.logHandlerError(e, v.HandleChange()) }),
		)
	}
	return v, nil
}

func (v *TableView) logHandlerError(e Event, err error) {
	if err != nil {
		v.logger.Warn("handling table notification failed",
			zap.Stringer("event", e.Kind),
			zap.Stringer("record", e.Record),
			zap.Error(err),
		)
	}
}

// Renderer returns the Renderer of the view.
func (v *TableView) Renderer() *Renderer { return v.renderer }

// Source returns the bound source.
func (v *TableView) Source() Source { return v.source }

// Element returns the mounted element.
func (v *TableView) Element() *Element { return v.element }

// Render replaces the content of the mounted element
// with the rendered header and body
// and returns the view for call chaining.
// It fails with ErrNotImplemented before any markup is produced
// if an extension point is missing.
func (v *TableView) Render() (*TableView, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return v, ErrClosed
	}
	return v, v.render()
}

// render requires v.mu to be held.
func (v *TableView) render() error {
	var records []*Record
	if v.source.Kind() == SourceCollection {
		// Snapshot so the tracked rows match the rendered membership
		records = v.source.Collection().Records()
	}
	markup, err := v.renderer.renderTable(v.source, records)
	if err != nil {
		return err
	}
	err = v.element.SetInnerHTML(string(markup))
	if err != nil {
		return err
	}
	v.rendered = true
	v.trackRows(records)
	v.logger.Debug("rendered table", zap.Int("rows", len(records)))
	return nil
}

// trackRows maps records to the rendered body rows
// if every record was rendered as exactly one row.
// Untracked rows are removed by re-rendering.
func (v *TableView) trackRows(records []*Record) {
	clear(v.rowNodes)
	if v.source.Kind() != SourceCollection {
		return
	}
	tbody := v.element.Find("tbody")
	if tbody == nil {
		return
	}
	rows := elementChildren(tbody)
	if len(rows) != len(records) {
		v.logger.Debug("rendered rows don't match records, rows not tracked",
			zap.Int("rows", len(rows)),
			zap.Int("records", len(records)),
		)
		return
	}
	for i, record := range records {
		v.rowNodes[record] = []*html.Node{rows[i]}
	}
}

// HandleAdd appends the row of record to the rendered body
// without modifying existing rows.
// Nothing happens if the view was not rendered yet.
func (v *TableView) HandleAdd(record *Record) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if record == nil {
		return errors.New("HandleAdd: nil record")
	}
	if !v.rendered {
		v.logger.Debug("ignoring add before first render", zap.Stringer("record", record))
		return nil
	}
	tbody := v.element.Find("tbody")
	if tbody == nil {
		v.logger.Debug("ignoring add, rendered table has no tbody", zap.Stringer("record", record))
		return nil
	}
	row, err := v.renderer.RenderRow(record, len(elementChildren(tbody)))
	if err != nil {
		return err
	}
	nodes, err := appendHTML(tbody, string(row))
	if err != nil {
		return err
	}
	v.rowNodes[record] = nodes
	v.logger.Debug("appended row", zap.Stringer("record", record))
	return nil
}

// HandleRemove removes the row of record from the rendered body.
// If the row of record is not tracked, the table is re-rendered.
// Nothing happens if the view was not rendered yet.
func (v *TableView) HandleRemove(record *Record) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if !v.rendered {
		return nil
	}
	if nodes, ok := v.rowNodes[record]; ok {
		detach(nodes)
		delete(v.rowNodes, record)
		v.logger.Debug("removed row", zap.Stringer("record", record))
		return nil
	}
	v.logger.Debug("row of removed record not tracked, re-rendering", zap.Stringer("record", record))
	return v.render()
}

// HandleReset rebuilds the rendered table from the
// current membership of the bound Collection.
// Nothing happens if the view was not rendered yet.
func (v *TableView) HandleReset() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if !v.rendered {
		return nil
	}
	return v.render()
}

// HandleChange re-renders the table of the bound Record.
// Nothing happens if the view was not rendered yet.
func (v *TableView) HandleChange() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if !v.rendered {
		return nil
	}
	return v.render()
}

// HTML returns the rendered element including its own tag.
func (v *TableView) HTML() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.element.OuterHTML()
}

// InnerHTML returns the rendered content of the element.
func (v *TableView) InnerHTML() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.element.InnerHTML()
}

// Close unsubscribes the view from its source.
// Handlers of a closed view return ErrClosed.
// Close is safe to call multiple times.
func (v *TableView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	for _, sub := range v.subs {
		sub.Unsubscribe()
	}
	v.subs = nil
}
