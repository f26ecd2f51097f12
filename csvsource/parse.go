// Package csvsource loads CSV data as a tableview.Collection
// with automatic detection of the encoding and field separator.
package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/domonda/go-types/charset"
	"github.com/ungerik/go-fs"

	tableview "github.com/domonda/go-tableview"
)

// Parse parses CSV data and returns its rows
// together with the detected format.
//
// The encoding is detected by decoding with every
// configured encoding until all test strings decode correctly.
// The separator is taken from a "sep=X" first line
// or is the most frequent of comma, semicolon and tab.
//
// If config is nil then NewDefaultConfig() is used.
func Parse(data []byte, config *Config) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultConfig()
	}

	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = charset.TrimBOM(data, charset.BOMUTF8)
	data = sanitizeUTF8(data)

	firstLine, rest, _ := bytes.Cut(data, []byte{'\n'})
	if sep := parseSepHeaderLine(bytes.TrimRight(firstLine, "\r")); sep != "" {
		format.Separator = sep
		data = rest
	} else {
		format.Separator = detectSeparator(data)
	}

	rows, err = readRows(data, format.Separator)
	return rows, format, err
}

// ParseWithFormat parses CSV data with a known format.
func ParseWithFormat(data []byte, format *Format) ([][]string, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)

	firstLine, rest, _ := bytes.Cut(data, []byte{'\n'})
	if sep := parseSepHeaderLine(bytes.TrimRight(firstLine, "\r")); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", sep, format.Separator)
		}
		data = rest
	}
	return readRows(data, format.Separator)
}

// Load parses CSV data and returns its records
// as Collection with Columns from the header row.
func Load(data []byte, config *Config) (*tableview.Collection, tableview.Columns, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	rows, _, err := Parse(data, config)
	if err != nil {
		return nil, nil, err
	}
	return tableview.NewCollectionFromStrings(rows, config.IDColumn)
}

// LoadFile reads and loads a CSV file.
func LoadFile(ctx context.Context, file fs.FileReader, config *Config) (*tableview.Collection, tableview.Columns, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, cols, err := Load(data, config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", file.Name(), err)
	}
	return c, cols, nil
}

func readRows(data []byte, separator string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = rune(separator[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func detectSeparator(data []byte) string {
	var commas, semicolons, tabs int
	for line := range bytes.SplitSeq(data, []byte{'\n'}) {
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	default:
		return ","
	}
}

// parseSepHeaderLine returns X for the optionally quoted
// first lines "sep=X" or "SEP=X" written by Excel.
func parseSepHeaderLine(line []byte) string {
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '�', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
