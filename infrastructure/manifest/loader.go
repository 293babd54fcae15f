// Package manifest reads the list of clips to produce.
//
// The manifest is a JSON array of {name, path, mark: {url, time}} objects.
// YAML manifests with the same shape are accepted too.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"clipharvest/domain/clip"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// DefaultEncoding is used when no encoding is given
const DefaultEncoding = "utf-8"

// ErrInvalidManifest is wrapped by every structural problem in a manifest
var ErrInvalidManifest = errors.New("invalid manifest")

type markRecord struct {
	URL  string `json:"url" yaml:"url"`
	Time string `json:"time" yaml:"time"`
}

type entryRecord struct {
	Name string      `json:"name" yaml:"name"`
	Path string      `json:"path" yaml:"path"`
	Mark *markRecord `json:"mark" yaml:"mark"`
}

// Load reads the manifest at path, decoding it from the named text encoding
func Load(fs afero.Fs, path, encoding string) ([]clip.Entry, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	text, err := decode(raw, encoding)
	if err != nil {
		return nil, err
	}

	return Parse(text)
}

// Parse decodes UTF-8 manifest content
func Parse(data []byte) ([]clip.Entry, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidManifest)
	}

	var records []entryRecord
	if err := unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	entries := make([]clip.Entry, 0, len(records))
	for i, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidManifest, i+1, err)
		}
		entries = append(entries, clip.Entry{
			Name: rec.Name,
			Path: rec.Path,
			Mark: clip.Mark{
				URL:  rec.Mark.URL,
				Time: rec.Mark.Time,
			},
		})
	}

	return entries, nil
}

// unmarshal uses encoding/json for JSON documents so tab indentation and
// JSON error positions behave as expected, and YAML for everything else
func unmarshal(data []byte, records *[]entryRecord) error {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return json.Unmarshal(trimmed, records)
	}
	return yaml.Unmarshal(trimmed, records)
}

func (r entryRecord) validate() error {
	var missing []string
	if strings.TrimSpace(r.Path) == "" {
		missing = append(missing, "path")
	}
	if r.Mark == nil {
		missing = append(missing, "mark")
	} else {
		if strings.TrimSpace(r.Mark.URL) == "" {
			missing = append(missing, "mark.url")
		}
		if strings.TrimSpace(r.Mark.Time) == "" {
			missing = append(missing, "mark.time")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func decode(raw []byte, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported manifest encoding %q: %w", name, err)
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest as %s: %w", name, err)
	}
	return text, nil
}
