package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // [table] sections of quoted pattern keys
	FormatYAML               // top-level mapping of tables
	FormatJSON               // top-level object of tables
	FormatText               // one "key -> value" pair per line
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Name:        "toml",
		Description: "TOML Pattern Dictionary",
		Extensions:  []string{".toml"},
		MinSize:     8, // [a]\n"b"="c"
	},
	FormatYAML: {
		Format:      FormatYAML,
		Name:        "yaml",
		Description: "YAML Pattern Dictionary",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     6, // a:\n b: c
	},
	FormatJSON: {
		Format:      FormatJSON,
		Name:        "json",
		Description: "JSON Pattern Dictionary",
		Extensions:  []string{".json"},
		MinSize:     2, // {}
	},
	FormatText: {
		Format:      FormatText,
		Name:        "txt",
		Description: "Plain Text Pattern Dictionary",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat resolves a format by its short name ("toml", "yaml", "json", "txt").
func ParseFormat(name string) (FileFormat, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	for format, info := range supportedFormats {
		if info.Name == name {
			return format, true
		}
		for _, ext := range info.Extensions {
			if ext[1:] == name {
				return format, true
			}
		}
	}
	return FormatUnknown, false
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	// Check file size
	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	return validateReadable(filename)
}

// validateReadable makes sure the file can be opened and its first line read
func validateReadable(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	if _, err := reader.Peek(1); err != nil {
		return fmt.Errorf("failed to read from file %s: %w", filename, err)
	}

	log.Debugf("Dictionary file %s validated", filename)
	return nil
}

// DetectFileFormat attempts to detect the format of a file by its extension
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	for format, info := range supportedFormats {
		for _, candidate := range info.Extensions {
			if ext != candidate {
				continue
			}
			if err := ValidateFileFormat(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("%w: unable to detect format for file %s", ErrUnknownFormat, filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by format id
func ListSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Format < formats[j].Format
	})
	return formats
}
