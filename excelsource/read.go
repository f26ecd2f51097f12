// Package excelsource loads Excel sheets (.xlsx, .xlsm, .xltm, .xltx)
// as tableview.Collection using github.com/xuri/excelize/v2.
//
// The first non empty row of a sheet is the header row,
// every following non empty row becomes a record.
package excelsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	tableview "github.com/domonda/go-tableview"
)

var (
	// ErrEmptySheet is returned for sheets without
	// data after removing empty rows and columns.
	ErrEmptySheet = errors.New("empty sheet")
)

// ErrSheetNotExist is returned by excelize
// for sheet names not in the workbook.
type ErrSheetNotExist = excelize.ErrSheetNotExist

// Options for loading a sheet.
type Options struct {
	// Sheet to load, the first sheet if empty.
	Sheet string
	// IDColumn is the header title of the column holding record IDs.
	// If empty, 1-based row numbers are used.
	IDColumn string
	// RawCellValues disables the number formats of the workbook.
	RawCellValues bool
}

// Load reads a workbook from reader and loads one of its sheets.
func Load(reader io.Reader, opts Options) (c *tableview.Collection, cols tableview.Columns, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
		}
	}
	rows, err := readSheetRows(f, sheet, opts.RawCellValues)
	if err != nil {
		return nil, nil, err
	}
	c, cols, err = tableview.NewCollectionFromStrings(rows, opts.IDColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return c, cols, nil
}

// LoadFile reads a workbook file and loads one of its sheets.
func LoadFile(ctx context.Context, file fs.FileReader, opts Options) (*tableview.Collection, tableview.Columns, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, cols, err := Load(bytes.NewReader(data), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", file.Name(), err)
	}
	return c, cols, nil
}

// SheetNames returns the names of all sheets of a workbook.
func SheetNames(reader io.Reader) (names []string, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return f.GetSheetList(), nil
}

func readSheetRows(f *excelize.File, sheet string, rawCellValues bool) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: rawCellValues})
	if err != nil {
		return nil, err
	}
	rows = tableview.RemoveEmptyStringRows(rows)
	numCols := removeEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

// removeEmptyStringColumns removes leading and trailing
// columns where all cells are empty and returns
// the number of remaining columns.
func removeEmptyStringColumns(rows [][]string) (numCols int) {
	first, last := -1, -1
	for _, row := range rows {
		for col, cell := range row {
			if cell == "" {
				continue
			}
			if first == -1 || col < first {
				first = col
			}
			if col > last {
				last = col
			}
		}
	}
	if first == -1 {
		return 0
	}
	for i, row := range rows {
		end := min(len(row), last+1)
		if first >= end {
			rows[i] = []string{}
			continue
		}
		rows[i] = row[first:end]
	}
	return last - first + 1
}
