package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/evadb/pkg/errors"
)

const sampleDocument = `
core:
  mode: debug
  datasets_dir: /data/eva
  catalog_database_uri: ""
executor:
  gpu_ids: [0, 1]
`

func TestParseDocument_ReadsNestedValues(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	v, ok := ReadValue(doc, "core", "mode")
	assert.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = ReadValue(doc, "core", "catalog_database_uri")
	assert.True(t, ok)
	assert.True(t, IsEmpty(v))

	_, ok = ReadValue(doc, "storage", "upload_dir")
	assert.False(t, ok, "missing section reads as absent")

	_, ok = ReadValue(doc, "core", "nope")
	assert.False(t, ok)

	assert.Equal(t, "/data/eva", ReadString(doc, "core", "datasets_dir"))
	assert.Equal(t, "", ReadString(doc, "executor", "gpu_ids"), "non-string reads as empty string")
}

func TestParseDocument_EmptyInput(t *testing.T) {
	doc, err := ParseDocument(nil)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestParseDocument_Malformed(t *testing.T) {
	_, err := ParseDocument([]byte("core: [\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedConfig))

	_, err = ParseDocument([]byte("- just\n- a list\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedConfig))
}

func TestReadValue_NonMappingSection(t *testing.T) {
	doc := Document{"core": "scalar"}
	_, ok := ReadValue(doc, "core", "mode")
	assert.False(t, ok)

	var nilDoc Document
	_, ok = ReadValue(nilDoc, "core", "mode")
	assert.False(t, ok)
}

func TestUpdateValue_CreatesSectionAndOverwrites(t *testing.T) {
	doc := NewDocument()
	UpdateValue(doc, "storage", "upload_dir", "/tmp/upload")
	assert.Equal(t, "/tmp/upload", ReadString(doc, "storage", "upload_dir"))

	UpdateValue(doc, "storage", "upload_dir", "/tmp/other")
	assert.Equal(t, "/tmp/other", ReadString(doc, "storage", "upload_dir"))

	doc["core"] = "not a map"
	UpdateValue(doc, "core", "mode", "release")
	assert.Equal(t, "release", ReadString(doc, "core", "mode"))
}

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc, err := ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)
	UpdateValue(doc, "storage", "upload_dir", "/x/upload")

	require.NoError(t, doc.Save(fs, "/cfg/eva.yml"))

	loaded, err := LoadDocument(fs, "/cfg/eva.yml")
	require.NoError(t, err)
	assert.Equal(t, "/x/upload", ReadString(loaded, "storage", "upload_dir"))
	assert.Equal(t, "debug", ReadString(loaded, "core", "mode"))

	first, err := doc.Marshal()
	require.NoError(t, err)
	second, err := loaded.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "encoding is deterministic")
}

func TestDocument_MarshalSortsKeysWithTwoSpaceIndent(t *testing.T) {
	doc := Document{
		"storage": map[string]any{"upload_dir": "/u"},
		"core":    map[string]any{"mode": "release", "application": "eva"},
	}
	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "core:\n  application: eva\n  mode: release\nstorage:\n  upload_dir: /u\n", string(out))
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(afero.NewMemMapFs(), "/nope/eva.yml")
	assert.Error(t, err)
}

func TestLoadDocument_MalformedKeepsCode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/eva.yml", []byte("core: [\n"), 0o644))
	_, err := LoadDocument(fs, "/eva.yml")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMalformedConfig, apperrors.GetCode(err))
}

func TestIsEmpty(t *testing.T) {
	for _, v := range []any{nil, "", false, 0, int64(0), uint64(0), 0.0, []any{}, map[string]any{}} {
		assert.True(t, IsEmpty(v), "%#v", v)
	}
	for _, v := range []any{"   ", "x", true, 1, 0.5, []any{"a"}, map[string]any{"k": 1}} {
		assert.False(t, IsEmpty(v), "%#v", v)
	}
}

func TestIsEmpty_ParsedValues(t *testing.T) {
	doc, err := ParseDocument([]byte("core:\n  a: []\n  b: {}\n  c: false\n  d: 0\n  e: ' '\n"))
	require.NoError(t, err)

	for _, key := range []string{"a", "b", "c", "d"} {
		assert.True(t, IsEmpty(mustValue(t, doc, "core", key)), key)
	}
	assert.False(t, IsEmpty(mustValue(t, doc, "core", "e")))
}

func mustValue(t *testing.T, doc Document, section, key string) any {
	t.Helper()
	v, ok := ReadValue(doc, section, key)
	require.True(t, ok)
	return v
}

func TestSplitKey(t *testing.T) {
	section, key, err := SplitKey("core.mode")
	require.NoError(t, err)
	assert.Equal(t, "core", section)
	assert.Equal(t, "mode", key)

	for _, bad := range []string{"core", ".mode", "core.", "a.b.c", ""} {
		_, _, err := SplitKey(bad)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam), bad)
	}
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, 9000, ParseScalar("9000"))
	assert.Equal(t, true, ParseScalar("true"))
	assert.Equal(t, "debug", ParseScalar("debug"))
	assert.Equal(t, "sqlite:///eva_catalog.db", ParseScalar("sqlite:///eva_catalog.db"))
	assert.Equal(t, "", ParseScalar(""))
	assert.Equal(t, "[1, 2]", ParseScalar("[1, 2]"))
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	ok, err := Exists(fs, "/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.MkdirAll("/a", 0o755))
	ok, err = Exists(fs, "/a")
	require.NoError(t, err)
	assert.True(t, ok)
}
