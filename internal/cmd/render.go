package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ungerik/go-fs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	tableview "github.com/domonda/go-tableview"
	"github.com/domonda/go-tableview/csvsource"
	"github.com/domonda/go-tableview/excelsource"
	"github.com/domonda/go-tableview/internal/config"
	"github.com/domonda/go-tableview/sqlsource"
)

type renderOptions struct {
	input  string
	output string
	db     string
	query  string
	record string
	watch  bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render records as HTML table",
		Example: `  tableview render --config table.yaml --input people.csv --out people.html
  tableview render --input people.xlsx --record 42
  tableview render --db people.sqlite --query "SELECT * FROM people" --watch --out people.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), root, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input file (.csv, .tsv, .xlsx, .xlsm, .xltm, .xltx)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Output HTML file (default: stdout)")
	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite database file")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "SQL query for --db (default: query of config file)")
	cmd.Flags().StringVar(&opts.record, "record", "", "Render only the fields of the record with this ID")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-render whenever the input file changes")
	cmd.MarkFlagsMutuallyExclusive("input", "db")
	return cmd
}

func (opts *renderOptions) watchPath() string {
	if opts.db != "" {
		return opts.db
	}
	return opts.input
}

func runRender(ctx context.Context, root *rootOptions, opts *renderOptions, stdout io.Writer) error {
	if opts.watch && opts.watchPath() == "" {
		return errors.New("--watch requires --input or --db")
	}

	c, cols, err := loadRecords(ctx, root.config, opts)
	if err != nil {
		return err
	}
	if len(root.config.Columns) > 0 {
		cols = root.config.Columns
	}
	logger := root.logger
	if path := opts.watchPath(); path != "" {
		logger = logger.With(zap.String("input", path))
	}

	var (
		table  tableview.Table = cols
		model  any             = c
		record *tableview.Record
	)
	if opts.record != "" {
		record = c.Get(opts.record)
		if record == nil {
			return fmt.Errorf("no record with ID %q", opts.record)
		}
		table = tableview.TableFuncs(
			func() [][]string { return [][]string{{"Field", "Value"}} },
			nil,
		)
		model = record
	}

	view, err := root.config.Apply(tableview.NewRenderer(table)).WithLogger(logger).Bind(model)
	if err != nil {
		return err
	}
	defer view.Close()

	if _, err = view.Render(); err != nil {
		return err
	}
	if err = writeOutput(view, opts.output, stdout); err != nil {
		return err
	}
	logger.Info("rendered table", zap.String("output", opts.output), zap.Int("records", c.Len()))

	if !opts.watch {
		return nil
	}
	w, err := newFileWatcher(opts.watchPath(), logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, func(ctx context.Context) error {
		reloaded, _, err := loadRecords(ctx, root.config, opts)
		if err != nil {
			return err
		}
		if record != nil {
			err = updateRecord(record, reloaded.Get(record.ID()))
		} else {
			c.Reset(reloaded.Records()...)
		}
		if err != nil {
			return err
		}
		logger.Info("reloaded input", zap.Int("records", reloaded.Len()))
		return writeOutput(view, opts.output, stdout)
	})
}

func loadRecords(ctx context.Context, cfg *config.Config, opts *renderOptions) (*tableview.Collection, tableview.Columns, error) {
	switch {
	case opts.db != "":
		query := opts.query
		if query == "" {
			query = cfg.Query
		}
		if query == "" {
			return nil, nil, errors.New("--db requires --query or a query in the config file")
		}
		db, err := sql.Open("sqlite", opts.db)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return sqlsource.Query(ctx, db, cfg.IDColumn, query)

	case opts.input != "":
		file := fs.File(opts.input)
		switch ext := strings.ToLower(filepath.Ext(opts.input)); ext {
		case ".csv", ".tsv", ".txt":
			return csvsource.LoadFile(ctx, file, csvsource.NewDefaultConfig().WithIDColumn(cfg.IDColumn))
		case ".xlsx", ".xlsm", ".xltm", ".xltx":
			return excelsource.LoadFile(ctx, file, excelsource.Options{Sheet: cfg.Sheet, IDColumn: cfg.IDColumn})
		default:
			return nil, nil, fmt.Errorf("unsupported input file type %q", ext)
		}

	case len(cfg.Records) > 0:
		var keys []string
		seen := make(map[string]bool)
		for _, r := range cfg.Records {
			for _, key := range r.Keys() {
				if !seen[key] {
					seen[key] = true
					keys = append(keys, key)
				}
			}
		}
		return cfg.Records.Collection(), tableview.ColumnsFromKeys(keys...), nil

	default:
		return nil, nil, errors.New("no input: use --input, --db or records in the config file")
	}
}

// updateRecord sets the fields of src at dst
// and removes the fields of dst that src doesn't have.
func updateRecord(dst, src *tableview.Record) error {
	if src == nil {
		return fmt.Errorf("record %q no longer in input", dst.ID())
	}
	for _, field := range src.Pairs() {
		dst.Set(field.Key, field.Value)
	}
	for _, key := range dst.Keys() {
		if !src.Has(key) {
			dst.Unset(key)
		}
	}
	return nil
}

func writeOutput(view *tableview.TableView, output string, stdout io.Writer) error {
	markup, err := view.HTML()
	if err != nil {
		return err
	}
	if output == "" || output == "-" {
		_, err = fmt.Fprintln(stdout, markup)
		return err
	}
	if err = fs.File(output).WriteAll([]byte(markup + "\n")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
