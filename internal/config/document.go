package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	apperrors "github.com/turtacn/evadb/pkg/errors"
)

// Document is the raw configuration mapping (sections → keys → values) as
// read from eva.yml.  The bootstrapper edits a Document rather than the typed
// Config so that keys it does not know about survive the rewrite.
type Document map[string]any

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{}
}

// ParseDocument decodes YAML bytes.  An empty input yields an empty Document.
func ParseDocument(data []byte) (Document, error) {
	doc := Document{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformedConfig, "parse configuration")
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// LoadDocument reads and parses the document at path on fsys.
func LoadDocument(fsys afero.Fs, path string) (Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnknown, "load configuration").WithDetail(path)
	}
	return doc, nil
}

// Marshal encodes the document as YAML with two-space indentation.  Map keys
// are emitted in sorted order, so equal documents encode to equal bytes.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(d)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save overwrites path on fsys with the encoded document.
func (d Document) Save(fsys afero.Fs, path string) error {
	data, err := d.Marshal()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigWrite, "encode configuration")
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigWrite, "write configuration").WithDetail(path)
	}
	return nil
}

// section returns the mapping stored under name, or nil when it is absent or
// not a mapping.
func (d Document) section(name string) map[string]any {
	switch s := d[name].(type) {
	case map[string]any:
		return s
	case Document:
		return s
	case map[any]any:
		out := make(map[string]any, len(s))
		for k, v := range s {
			out[fmt.Sprint(k)] = v
		}
		d[name] = out
		return out
	default:
		return nil
	}
}

// ReadValue returns doc[section][key].  The boolean is false when either the
// section or the key is absent.
func ReadValue(doc Document, section, key string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	s := doc.section(section)
	if s == nil {
		return nil, false
	}
	v, ok := s[key]
	return v, ok
}

// ReadString is ReadValue for string settings.  Absent keys, nulls and
// non-string values read as "".
func ReadString(doc Document, section, key string) string {
	v, ok := ReadValue(doc, section, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// UpdateValue sets doc[section][key] = value in place, creating the section
// when it is missing or not a mapping.
func UpdateValue(doc Document, section, key string, value any) {
	s := doc.section(section)
	if s == nil {
		s = map[string]any{}
		doc[section] = s
	}
	s[key] = value
}

// IsEmpty reports whether a setting counts as unset: absent, null, an empty
// string, false, zero, or an empty list or mapping.  A whitespace-only string
// is a value.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// SplitKey splits a dotted "section.key" path.
func SplitKey(path string) (section, key string, err error) {
	section, key, ok := strings.Cut(path, ".")
	if !ok || section == "" || key == "" || strings.Contains(key, ".") {
		return "", "", apperrors.New(apperrors.CodeInvalidParam, "key must have the form section.key").WithDetail(path)
	}
	return section, key, nil
}

// ParseScalar interprets a command-line value the way YAML would, so that
// `config set server.port 9000` stores an integer rather than a string.
func ParseScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}

// Exists reports whether path exists on fsys.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
