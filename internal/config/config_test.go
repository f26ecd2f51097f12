package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tableview "github.com/domonda/go-tableview"
)

const sampleConfig = `
class_name: ""
id_column: key
columns:
  - title: Name
    field: name
  - title: Bio
    field: bio
    raw: true
  - title: Height
    field: height
    format: "%.2f m"
records:
  - zeta: last
    name: Ada
    id: ada
    height: 1.7
  - name: Grace
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.NotNil(t, cfg.ClassName)
	assert.Equal(t, "", *cfg.ClassName)
	assert.Equal(t, "key", cfg.IDColumn)
	assert.Equal(t, tableview.Columns{
		{Title: "Name", Field: "name"},
		{Title: "Bio", Field: "bio", Raw: true},
		{Title: "Height", Field: "height", Format: "%.2f m"},
	}, cfg.Columns)

	require.Len(t, cfg.Records, 2)
	assert.Equal(t, "ada", cfg.Records[0].ID())
	assert.Equal(t, []string{"zeta", "name", "id", "height"}, cfg.Records[0].Keys(), "YAML key order")
	assert.Equal(t, 1.7, cfg.Records[0].Get("height"))
	assert.Equal(t, "2", cfg.Records[1].ID())
	assert.Equal(t, 2, cfg.Records.Collection().Len())
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":           "columns: [",
		"duplicate fields": "columns:\n  - field: a\n  - field: a\n",
		"records mapping":  "records:\n  name: Ada\n",
		"record scalar":    "records:\n  - Ada\n",
		"duplicate id":     "records:\n  - {id: 1, name: Ada}\n  - {id: 1, name: Grace}\n",
		"id of index":      "records:\n  - {name: Ada}\n  - {id: 1, name: Grace}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "records:\n  - {id: 1, name: Ada}\n  - {id: 1, name: Grace}\n"))
	require.ErrorContains(t, err, `line 3: duplicate record ID "1"`)
}

func TestConfig_SaveLoad(t *testing.T) {
	className := "people"
	cfg := &Config{
		TagName:   "div",
		ClassName: &className,
		Columns:   tableview.ColumnsFromKeys("name", "born"),
		Records: Records{
			tableview.NewRecord("1", tableview.F("name", "Ada"), tableview.F("born", 1815)),
		},
	}
	path := filepath.Join(t.TempDir(), "nested", "table.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.TagName, loaded.TagName)
	assert.Equal(t, cfg.ClassName, loaded.ClassName)
	assert.Equal(t, cfg.Columns, loaded.Columns)
	require.Len(t, loaded.Records, 1)
	assert.Equal(t, cfg.Records[0].Pairs(), loaded.Records[0].Pairs())
}

func TestConfig_Apply(t *testing.T) {
	className := ""
	r := (&Config{TagName: "section", ClassName: &className}).Apply(tableview.NewRenderer(nil))
	assert.Equal(t, "section", r.TagName())
	assert.Equal(t, "", r.ClassName())

	r = (&Config{}).Apply(tableview.NewRenderer(nil))
	assert.Equal(t, "table", r.TagName())
	assert.Equal(t, "table", r.ClassName())
}
