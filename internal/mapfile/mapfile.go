// Package mapfile reads and writes map documents in JSON or YAML.
package mapfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/routemap/backend/internal/domain"
)

// Format names a map document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for encodings other than JSON and YAML.
	ErrUnknownFormat = errors.New("unknown map format")
	// ErrEmptyDocument is returned when the input holds no document at all.
	ErrEmptyDocument = errors.New("map document is empty")
	// ErrTrailingContent is returned when data follows the map document.
	ErrTrailingContent = errors.New("unexpected content after map document")
)

// ParseFormat accepts "json", "yaml" or "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the encoding from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType maps an HTTP Content-Type onto an encoding.
func FormatFromContentType(contentType string) Format {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads exactly one map document. A null document yields a nil graph,
// and content after the document is rejected. Missing collections stay nil
// so that validation can tell an absent edge list from an empty one.
func Decode(r io.Reader, format Format) (*domain.Graph, error) {
	var g *domain.Graph
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&g); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptyDocument
			}
			return nil, fmt.Errorf("decode yaml map: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml map: %w", ErrTrailingContent)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&g); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptyDocument
			}
			return nil, fmt.Errorf("decode json map: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json map: %w", ErrTrailingContent)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return g, nil
}

// Encode writes g in the requested encoding.
func Encode(w io.Writer, g domain.Graph, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode yaml map: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode json map: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Load reads a map file, choosing the decoder from its extension.
func Load(path string) (*domain.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	g, err := Decode(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Write stores g at path, creating parent directories as needed.
func Write(path string, g domain.Graph, format Format) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := Encode(file, g, format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
