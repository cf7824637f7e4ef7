// Package document decodes and encodes the key/value documents addons use for
// configuration, API manifests and structured cache entries.
//
// The format is picked from the file extension: ".toml" is TOML, ".json" is
// JSON and everything else is YAML.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Mapping is a decoded document. Nested documents are map[string]any.
type Mapping map[string]any

// Format identifies a document encoding
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatFor returns the format implied by a file name's extension
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return TOML
	case ".json":
		return JSON
	default:
		return YAML
	}
}

// Decode parses data in the given format. An empty document decodes to an
// empty mapping.
func Decode(format Format, data []byte) (Mapping, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Mapping{}, nil
	}

	var parsed map[string]any
	var err error
	switch format {
	case TOML:
		err = toml.Unmarshal(data, &parsed)
	case JSON:
		err = sonic.Unmarshal(data, &parsed)
	default:
		err = yaml.Unmarshal(data, &parsed)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if parsed == nil {
		return Mapping{}, nil
	}
	return Mapping(parsed), nil
}

// Encode serialises m in the given format
func Encode(format Format, m Mapping) ([]byte, error) {
	data := map[string]any(m)
	if data == nil {
		data = map[string]any{}
	}

	var out []byte
	var err error
	switch format {
	case TOML:
		out, err = toml.Marshal(data)
	case JSON:
		out, err = sonic.MarshalIndent(data, "", "  ")
	default:
		out, err = yaml.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return out, nil
}

// ReadFile reads and decodes the document at path. Filesystem errors are
// returned unwrapped so callers can test them with os.IsNotExist.
func ReadFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(FormatFor(path), data)
}

// Merge returns a new mapping holding every default key, with override keys
// replacing defaults wholesale. Nested mappings are not merged.
func Merge(defaults, overrides Mapping) Mapping {
	out := make(Mapping, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of m. Nested mappings and sequences are copied,
// scalars are shared.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	return cloneMap(m)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Mapping:
		return Mapping(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = cloneMap(e)
		}
		return out
	default:
		return v
	}
}

// Lookup returns the value stored under key, treating nil as absent
func (m Mapping) Lookup(key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
