package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	tableview "github.com/domonda/go-tableview"
)

// Config holds the table configuration of the CLI
type Config struct {
	TagName   string  `yaml:"tag_name,omitempty"`
	ClassName *string `yaml:"class_name,omitempty"` // nil keeps the default "table"
	IDColumn  string  `yaml:"id_column,omitempty"`
	Sheet     string  `yaml:"sheet,omitempty"` // Excel sheet, first sheet if empty
	Query     string  `yaml:"query,omitempty"` // SQL query for --db inputs

	Columns tableview.Columns `yaml:"columns,omitempty"`
	Records Records           `yaml:"records,omitempty"`
}

// Load loads config from the given path.
// A missing file results in an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks the configured columns
func (c *Config) Validate() error {
	if len(c.Columns) > 0 {
		return c.Columns.Validate()
	}
	return nil
}

// Apply returns r configured with the tag and class name of c
func (c *Config) Apply(r *tableview.Renderer) *tableview.Renderer {
	if c.TagName != "" {
		r = r.WithTagName(c.TagName)
	}
	if c.ClassName != nil {
		r = r.WithClassName(*c.ClassName)
	}
	return r
}

// Records are inline records of a config file.
// Record keys keep the order of the YAML mapping.
type Records []*tableview.Record

// Collection returns the records as Collection
func (rs Records) Collection() *tableview.Collection {
	return tableview.NewCollection(rs...)
}

// UnmarshalYAML decodes a sequence of mappings.
// The value of the "id" key is used as record ID,
// else the 1-based index in the sequence.
// Record IDs must be unique.
func (rs *Records) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: records must be a sequence", node.Line)
	}
	records := make(Records, 0, len(node.Content))
	seen := make(map[string]bool, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: record must be a mapping", item.Line)
		}
		id := strconv.Itoa(i + 1)
		fields := make([]tableview.Field, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			keyNode, valueNode := item.Content[j], item.Content[j+1]
			var value any
			if err := valueNode.Decode(&value); err != nil {
				return fmt.Errorf("line %d: %w", valueNode.Line, err)
			}
			if keyNode.Value == "id" && value != nil {
				id = tableview.FormatValue(value, "")
			}
			fields = append(fields, tableview.F(keyNode.Value, value))
		}
		if seen[id] {
			return fmt.Errorf("line %d: duplicate record ID %q", item.Line, id)
		}
		seen[id] = true
		records = append(records, tableview.NewRecord(id, fields...))
	}
	*rs = records
	return nil
}

// MarshalYAML encodes the records as sequence of mappings
// in the order of their keys.
func (rs Records) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rs {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, field := range r.Pairs() {
			var value yaml.Node
			if err := value.Encode(field.Value); err != nil {
				return nil, fmt.Errorf("record %s field %q: %w", r, field.Key, err)
			}
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Key},
				&value,
			)
		}
		seq.Content = append(seq.Content, mapping)
	}
	return seq, nil
}
