package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	tableview "github.com/domonda/go-tableview"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE people (id TEXT PRIMARY KEY, forename TEXT, surname TEXT, born INTEGER, photo BLOB);
		INSERT INTO people VALUES ('ada', 'Ada', 'Lovelace', 1815, x'4164'), ('grace', 'Grace', 'Hopper', 1906, NULL);
	`)
	require.NoError(t, err)
	return db
}

func TestQuery(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	c, cols, err := Query(ctx, db, "id", `SELECT id, forename, surname, born, photo FROM people ORDER BY born`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "forename", "surname", "born", "photo"}, cols.Titles())
	require.Equal(t, 2, c.Len())

	ada := c.At(0)
	assert.Equal(t, "ada", ada.ID())
	assert.Equal(t, []string{"id", "forename", "surname", "born", "photo"}, ada.Keys())
	assert.Equal(t, "Lovelace", ada.Get("surname"))
	assert.Equal(t, int64(1815), ada.Get("born"))
	assert.Equal(t, "Ad", ada.Get("photo"), "[]byte converted to string")
	assert.Nil(t, c.Get("grace").Get("photo"))

	markup, err := tableview.NewRenderer(cols).RenderTable(c)
	require.NoError(t, err)
	assert.Contains(t, string(markup), "<td>1906</td><td></td></tr>")
}

func TestQuery_RowNumberIDs(t *testing.T) {
	c, _, err := Query(context.Background(), openTestDB(t), "", `SELECT forename FROM people WHERE born > ? ORDER BY born`, 1800)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Get("1").Get("forename"))
	assert.Equal(t, "Grace", c.Get("2").Get("forename"))
}

func TestQuery_Errors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, _, err := Query(ctx, db, "key", `SELECT * FROM people`)
	require.ErrorIs(t, err, tableview.ErrMissingIDColumn)

	_, _, err = Query(ctx, db, "surname", `SELECT 'x' AS surname UNION ALL SELECT 'x'`)
	require.Error(t, err, "duplicate ID")

	_, _, err = Query(ctx, db, "", `SELECT * FROM missing_table`)
	require.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = Query(canceled, db, "", `SELECT * FROM people`)
	require.ErrorIs(t, err, context.Canceled)
}

type fakeRows struct {
	columns []string
	values  [][]any
	next    int
	scanErr error
	closed  bool
}

func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }
func (r *fakeRows) Next() bool                 { r.next++; return r.next <= len(r.values) }
func (r *fakeRows) Err() error                 { return nil }
func (r *fakeRows) Close() error               { r.closed = true; return nil }

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, d := range dest {
		if err := d.(sql.Scanner).Scan(r.values[r.next-1][i]); err != nil {
			return err
		}
	}
	return nil
}

func TestLoad(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"n", "b"},
		values:  [][]any{{int64(1), []byte("one")}, {int64(2), nil}},
	}
	c, _, err := Load(context.Background(), rows, "n")
	require.NoError(t, err)
	assert.True(t, rows.closed)
	assert.Equal(t, "one", c.Get("1").Get("b"))
	assert.Nil(t, c.Get("2").Get("b"))

	rows = &fakeRows{columns: []string{"n"}, values: [][]any{{1}}, scanErr: errors.New("scan failed")}
	_, _, err = Load(context.Background(), rows, "")
	require.EqualError(t, err, "scan failed")
	assert.True(t, rows.closed)
}
