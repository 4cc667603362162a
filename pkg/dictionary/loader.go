/*
Package dictionary loads ordered pattern dictionaries from disk.

A dictionary file holds one or more named tables. Every table is an ordered
list of key pattern / value pattern pairs, and that order is kept exactly as
written in the file because it decides which pattern wins when several match.

TOML:

	[plural]
	"%y" = "%ies"
	"%" = "%s"

YAML:

	plural:
	  "%y": "%ies"
	  "%": "%s"

JSON:

	{"plural": {"%y": "%ies", "%": "%s"}}

Plain text files hold a single table named after the file:

	# plural.txt
	%y -> %ies
	%	%s
*/
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordmap/pkg/mapping"
)

// Table is a named, ordered list of pattern pairs.
type Table struct {
	Name   string
	Source string
	Pairs  []mapping.Pair
}

// Build turns the table into a bidirectional mapping.
func (t Table) Build(opts ...mapping.Option) (*mapping.Mapping, error) {
	m, err := mapping.New(t.Pairs, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build table %s from %s: %w", t.Name, t.Source, err)
	}
	return m, nil
}

// LoadFile reads every table in filename.
func LoadFile(filename string) ([]Table, error) {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	base := filepath.Base(filename)
	tables, err := Parse(data, format, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	for i := range tables {
		tables[i].Source = filename
	}

	log.Debugf("Loaded %d tables from %s (%s)", len(tables), filename, format)
	return tables, nil
}

// LoadDir reads every dictionary file in dirPath in file name order. Only the
// given formats are considered; with none given all supported formats are.
// Files with other extensions are skipped.
func LoadDir(dirPath string, formats ...FileFormat) ([]Table, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan dictionary dir %s: %w", dirPath, err)
	}

	allowed := make(map[string]bool)
	if len(formats) == 0 {
		for _, info := range ListSupportedFormats() {
			formats = append(formats, info.Format)
		}
	}
	for _, format := range formats {
		if info, ok := GetFormatInfo(format); ok {
			for _, ext := range info.Extensions {
				allowed[ext] = true
			}
		}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !allowed[ext] {
			log.Debugf("Skipping %s: extension %q not enabled", entry.Name(), ext)
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no dictionary files found in %s", dirPath)
	}

	var tables []Table
	for _, file := range files {
		loaded, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		tables = append(tables, loaded...)
	}

	log.Debugf("Found %d dictionary files with %d tables", len(files), len(tables))
	return tables, nil
}
