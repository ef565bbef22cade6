package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "book", s.Resource)
	assert.Equal(t, "isbn", s.Key)
	require.Len(t, s.Fields, 8)

	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
		assert.True(t, f.RequiredIn(ModeCreate), f.Name)
		assert.False(t, f.RequiredIn(ModeUpdate), f.Name)
	}
	assert.Equal(t, []string{"isbn", "amazon_url", "author", "language", "pages", "publisher", "title", "year"}, names)

	isbn, ok := s.Field("isbn")
	require.True(t, ok)
	assert.True(t, isbn.Immutable)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
resource: book
key: isbn
fields:
  - name: isbn
    type: string
    required: [create]
  - name: title
    type: string
    required: [create, update]
`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Fields, 2)

	title, ok := s.Field("title")
	require.True(t, ok)
	assert.True(t, title.RequiredIn(ModeUpdate))
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Len(t, s.Fields, 8)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no fields", "resource: book\nkey: isbn\n"},
		{"unknown type", "key: isbn\nfields:\n  - name: isbn\n    type: float\n"},
		{"duplicate field", "key: isbn\nfields:\n  - name: isbn\n    type: string\n  - name: isbn\n    type: string\n"},
		{"unknown mode", "key: isbn\nfields:\n  - name: isbn\n    type: string\n    required: [patch]\n"},
		{"key not declared", "key: id\nfields:\n  - name: isbn\n    type: string\n"},
		{"not yaml", "fields: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNewValidator_RejectsUnknownRule(t *testing.T) {
	s, err := Parse([]byte("key: isbn\nfields:\n  - name: isbn\n    type: string\n    rules: \"not_a_rule\"\n"))
	require.NoError(t, err)

	_, err = NewValidator(s)
	assert.Error(t, err)
}

func TestValidator_CustomSchemaRequiredInUpdate(t *testing.T) {
	s, err := Parse([]byte(`
key: isbn
fields:
  - name: isbn
    type: string
    required: [create]
  - name: title
    type: string
    required: [create, update]
`))
	require.NoError(t, err)
	v, err := NewValidator(s)
	require.NoError(t, err)

	_, violations := v.Validate(map[string]any{"isbn": "1"}, ModeUpdate)
	assert.Equal(t, []string{"title is required"}, violations.Messages())
}
