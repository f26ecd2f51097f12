package csvsource

import (
	"errors"
	"fmt"
)

// Format of CSV data.
type Format struct {
	// Encoding is the charset name of the data, like "UTF-8".
	Encoding string `yaml:"encoding"`
	// Separator is the single character field separator.
	Separator string `yaml:"separator"`
}

// Validate returns an error if the format is incomplete.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvsource.Format")
	case f.Encoding == "":
		return errors.New("missing csvsource.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvsource.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvsource.Format.Separator: %q", f.Separator)
	}
	return nil
}

// Config for format detection and loading.
type Config struct {
	// Encodings are tried in order to decode the data.
	Encodings []string `yaml:"encodings"`
	// EncodingTests are strings that have to decode
	// correctly for an encoding to be chosen.
	EncodingTests []string `yaml:"encodingTests"`
	// IDColumn is the header title of the column holding record IDs.
	// If empty, 1-based row numbers are used.
	IDColumn string `yaml:"idColumn"`
}

// NewDefaultConfig returns a Config detecting
// the most common western and cyrillic encodings.
func NewDefaultConfig() *Config {
	return &Config{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}

// WithIDColumn returns a copy of the config using idColumn.
func (c *Config) WithIDColumn(idColumn string) *Config {
	if c == nil {
		c = NewDefaultConfig()
	}
	mod := *c
	mod.IDColumn = idColumn
	return &mod
}
