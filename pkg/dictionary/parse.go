package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/bastiangx/wordmap/pkg/mapping"
)

// textSeparators split a text dictionary line into key and value, tried in order.
var textSeparators = []string{" -> ", "\t"}

// tableSet collects tables in first-seen order and rejects duplicate keys.
type tableSet struct {
	tables []Table
	index  map[string]int
	seen   []map[string]bool
	source string
}

func newTableSet(source string) *tableSet {
	return &tableSet{index: make(map[string]int), source: source}
}

func (ts *tableSet) table(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty table name in %s", ErrInvalidTable, ts.source)
	}
	if i, ok := ts.index[name]; ok {
		return i, nil
	}
	ts.index[name] = len(ts.tables)
	ts.tables = append(ts.tables, Table{Name: name, Source: ts.source})
	ts.seen = append(ts.seen, make(map[string]bool))
	return len(ts.tables) - 1, nil
}

func (ts *tableSet) add(name, key, value string) error {
	i, err := ts.table(name)
	if err != nil {
		return err
	}
	if ts.seen[i][key] {
		return fmt.Errorf("%w: %q in table %s (%s)", ErrDuplicateKey, key, name, ts.source)
	}
	ts.seen[i][key] = true
	ts.tables[i].Pairs = append(ts.tables[i].Pairs, mapping.Pair{Key: key, Value: value})
	return nil
}

// Parse decodes dictionary data. name is used as the table name for text
// dictionaries and as the source in error messages.
func Parse(data []byte, format FileFormat, name string) ([]Table, error) {
	ts := newTableSet(name)

	var err error
	switch format {
	case FormatTOML:
		err = parseTOML(data, ts)
	case FormatYAML:
		err = parseYAML(data, ts)
	case FormatJSON:
		err = parseJSON(data, ts)
	case FormatText:
		err = parseText(data, name, ts)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return ts.tables, nil
}

// parseTOML reads tables in document order using the decoder's key metadata.
func parseTOML(data []byte, ts *tableSet) error {
	var raw map[string]map[string]string
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return fmt.Errorf("failed to decode TOML %s: %w", ts.source, err)
	}

	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			if md.Type(key[0]) != "Hash" {
				return fmt.Errorf("%w: top level key %q in %s is not a table", ErrInvalidTable, key[0], ts.source)
			}
			if _, err := ts.table(key[0]); err != nil {
				return err
			}
		case 2:
			if err := ts.add(key[0], key[1], raw[key[0]][key[1]]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: nested key %s in %s", ErrInvalidTable, key, ts.source)
		}
	}
	return nil
}

// parseYAML walks the node tree to keep mapping order.
func parseYAML(data []byte, ts *tableSet) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode YAML %s: %w", ts.source, err)
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: top level of %s is not a mapping", ErrInvalidTable, ts.source)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i].Value, root.Content[i+1]
		if _, err := ts.table(name); err != nil {
			return err
		}
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: %s in %s is not a mapping", ErrInvalidTable, name, ts.source)
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key, value := body.Content[j], body.Content[j+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: value of %q in %s is not a string", ErrInvalidTable, key.Value, name)
			}
			if err := ts.add(name, key.Value, value.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseJSON streams tokens so object key order survives decoding.
func parseJSON(data []byte, ts *tableSet) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("failed to decode JSON %s: %w", ts.source, err)
	}
	for dec.More() {
		name, err := readString(dec)
		if err != nil {
			return fmt.Errorf("failed to decode JSON %s: %w", ts.source, err)
		}
		if _, err := ts.table(name); err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("%w: %s in %s: %v", ErrInvalidTable, name, ts.source, err)
		}
		for dec.More() {
			key, err := readString(dec)
			if err != nil {
				return fmt.Errorf("failed to decode JSON %s: %w", ts.source, err)
			}
			value, err := readString(dec)
			if err != nil {
				return fmt.Errorf("%w: value of %q in %s: %v", ErrInvalidTable, key, name, err)
			}
			if err := ts.add(name, key, value); err != nil {
				return err
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return fmt.Errorf("failed to decode JSON %s: %w", ts.source, err)
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return s, nil
}

// parseText reads one pair per line into a single table named after the file.
// Blank lines and lines starting with # are skipped.
func parseText(data []byte, name string, ts *tableSet) error {
	if _, err := ts.table(name); err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := cutLine(line)
		if !ok {
			return fmt.Errorf("%w: %s line %d has no separator", ErrInvalidTable, ts.source, lineNo)
		}
		if err := ts.add(name, key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func cutLine(line string) (string, string, bool) {
	for _, sep := range textSeparators {
		if key, value, ok := strings.Cut(line, sep); ok {
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if key == "" || value == "" {
				return "", "", false
			}
			return key, value, true
		}
	}
	return "", "", false
}
