// Package sqlsource loads SQL query results as a tableview.Collection.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	tableview "github.com/domonda/go-tableview"
)

var _ Rows = &sql.Rows{}

// Rows is the subset of *sql.Rows methods used by Load.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Close() error
	Next() bool
	Err() error
}

// Load scans all rows into records keyed by column name.
// The record IDs are the values of idColumn,
// or 1-based row numbers if idColumn is empty.
// []byte values are converted to strings.
// rows is closed when Load returns.
func Load(ctx context.Context, rows Rows, idColumn string) (c *tableview.Collection, cols tableview.Columns, err error) {
	defer func() {
		if e := rows.Close(); e != nil && err == nil {
			err = e
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	idIndex := -1
	if idColumn != "" {
		for i, name := range columns {
			if name == idColumn {
				idIndex = i
				break
			}
		}
		if idIndex == -1 {
			return nil, nil, fmt.Errorf("%w %q in %q", tableview.ErrMissingIDColumn, idColumn, columns)
		}
	}

	var records []*tableview.Record
	ids := make(map[string]struct{})
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		values := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&values[i]}
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return nil, nil, err
		}

		id := strconv.Itoa(len(records) + 1)
		if idIndex != -1 {
			id = tableview.FormatValue(values[idIndex], "")
		}
		if _, dup := ids[id]; dup {
			return nil, nil, fmt.Errorf("duplicate record ID %q in row %d", id, len(records)+1)
		}
		ids[id] = struct{}{}

		fields := make([]tableview.Field, len(columns))
		for i, name := range columns {
			fields[i] = tableview.F(name, values[i])
		}
		records = append(records, tableview.NewRecord(id, fields...))
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	cols = make(tableview.Columns, len(columns))
	for i, name := range columns {
		cols[i] = tableview.Column{Title: name, Field: name}
	}
	return tableview.NewCollection(records...), cols, nil
}

// Query executes query on db and loads the result rows.
func Query(ctx context.Context, db *sql.DB, idColumn, query string, args ...any) (*tableview.Collection, tableview.Columns, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("querying %q: %w", query, err)
	}
	return Load(ctx, rows, idColumn)
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	*s.dest = src
	return nil
}
