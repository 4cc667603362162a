package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/wordmap/pkg/mapping"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const pluralTOML = `[irregular]
person = "people"

[plural]
"%y" = "%ies"
"%s" = "%ses"
"%" = "%s"
`

const pluralYAML = `irregular:
  person: people
plural:
  "%y": "%ies"
  "%s": "%ses"
  "%": "%s"
`

const pluralJSON = `{
  "irregular": {"person": "people"},
  "plural": {"%y": "%ies", "%s": "%ses", "%": "%s"}
}`

const pluralText = `# singular -> plural
%y -> %ies
%s	%ses

% -> %s
`

var expectedPlural = []mapping.Pair{
	{Key: "%y", Value: "%ies"},
	{Key: "%s", Value: "%ses"},
	{Key: "%", Value: "%s"},
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadFileKeepsDocumentOrder(t *testing.T) {
	dir := t.TempDir()

	for _, tc := range []struct {
		file    string
		content string
		format  FileFormat
	}{
		{file: "plural.toml", content: pluralTOML, format: FormatTOML},
		{file: "plural.yaml", content: pluralYAML, format: FormatYAML},
		{file: "plural.yml", content: pluralYAML, format: FormatYAML},
		{file: "plural.json", content: pluralJSON, format: FormatJSON},
	} {
		t.Run(tc.file, func(t *testing.T) {
			path := writeFile(t, dir, tc.file, tc.content)

			format, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)

			tables, err := LoadFile(path)
			require.NoError(t, err)
			require.Len(t, tables, 2)

			assert.Equal(t, "irregular", tables[0].Name)
			assert.Equal(t, []mapping.Pair{{Key: "person", Value: "people"}}, tables[0].Pairs)
			assert.Equal(t, "plural", tables[1].Name)
			assert.Equal(t, expectedPlural, tables[1].Pairs)
			assert.Equal(t, path, tables[1].Source)

			m, err := tables[1].Build()
			require.NoError(t, err)

			value, ok := m.ValueFor("ferry")
			assert.True(t, ok)
			assert.Equal(t, "ferries", value)

			key, ok := m.KeyFor("buses")
			assert.True(t, ok)
			assert.Equal(t, "bus", key)
		})
	}
}

func TestLoadTextFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plural.txt", pluralText)

	tables, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "plural", tables[0].Name)
	assert.Equal(t, expectedPlural, tables[0].Pairs)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		uc     string
		data   string
		format FileFormat
		err    error
	}{
		{uc: "duplicate text key", data: "a -> b\na -> c\n", format: FormatText, err: ErrDuplicateKey},
		{uc: "text line without separator", data: "just words\n", format: FormatText, err: ErrInvalidTable},
		{uc: "duplicate json key", data: `{"t": {"a": "b", "a": "c"}}`, format: FormatJSON, err: ErrDuplicateKey},
		{uc: "json table not an object", data: `{"t": "x"}`, format: FormatJSON, err: ErrInvalidTable},
		{uc: "json value not a string", data: `{"t": {"a": 1}}`, format: FormatJSON, err: ErrInvalidTable},
		{uc: "toml stray key before table", data: "stray = \"x\"\n[plural]\n\"%\" = \"%s\"\n", format: FormatTOML, err: ErrInvalidTable},
		{uc: "yaml top level list", data: "- a\n- b\n", format: FormatYAML, err: ErrInvalidTable},
		{uc: "yaml nested value", data: "t:\n  a:\n    b: c\n", format: FormatYAML, err: ErrInvalidTable},
		{uc: "unknown format", data: "x", format: FormatUnknown, err: ErrUnknownFormat},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format, "test")

			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseInvalidSyntax(t *testing.T) {
	for _, tc := range []struct {
		uc     string
		data   string
		format FileFormat
	}{
		{uc: "toml", data: "[t\na = ", format: FormatTOML},
		{uc: "toml top level key", data: "a = \"b\"\n", format: FormatTOML},
		{uc: "yaml", data: "t: [a, b\n", format: FormatYAML},
		{uc: "json", data: `{"t": {"a": "b"}`, format: FormatJSON},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format, "test")

			require.Error(t, err)
		})
	}
}

func TestMalformedPatternSurfacesOnBuild(t *testing.T) {
	tables, err := Parse([]byte("%a% -> x\n"), FormatText, "broken")
	require.NoError(t, err)

	_, err = tables[0].Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_plural.toml", pluralTOML)
	writeFile(t, dir, "a_gender.txt", "actor -> actress\n")
	writeFile(t, dir, "notes.md", "# not a dictionary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	tables, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "a_gender", tables[0].Name)
	assert.Equal(t, "irregular", tables[1].Name)
	assert.Equal(t, "plural", tables[2].Name)

	tables, err = LoadDir(dir, FormatText)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "a_gender", tables[0].Name)

	_, err = LoadDir(dir, FormatJSON)
	require.Error(t, err)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	_, err := DetectFileFormat(writeFile(t, dir, "table.csv", "a,b"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = DetectFileFormat(writeFile(t, dir, "empty.json", ""))
	require.Error(t, err)

	_, err = DetectFileFormat(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	err = ValidateFileFormat(writeFile(t, dir, "table.json", "{}"), FormatTOML)
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]FileFormat{
		"toml":  FormatTOML,
		"YAML":  FormatYAML,
		"yml":   FormatYAML,
		".json": FormatJSON,
		"txt":   FormatText,
	} {
		got, ok := ParseFormat(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseFormat("csv")
	assert.False(t, ok)
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
	assert.Len(t, ListSupportedFormats(), 4)
}
