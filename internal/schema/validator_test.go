package schema

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	s, err := Default()
	require.NoError(t, err)
	v, err := NewValidator(s)
	require.NoError(t, err)
	return v
}

// decodePayload mirrors how the HTTP layer decodes bodies (numbers kept as json.Number).
func decodePayload(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	require.NoError(t, dec.Decode(&payload))
	return payload
}

const lorelei = `{
	"isbn": "5544778",
	"amazon_url": "https://amazon.com/lorelei",
	"author": "Cocteau Twin",
	"language": "Icelandic",
	"pages": 329,
	"publisher": "Penguin Random House",
	"title": "Lorelei's Ghost",
	"year": 1985
}`

func TestValidateCreate_Valid(t *testing.T) {
	v := newTestValidator(t)

	book, err := v.ValidateCreate(decodePayload(t, lorelei))
	require.NoError(t, err)

	assert.Equal(t, "5544778", book.ISBN)
	assert.Equal(t, "https://amazon.com/lorelei", book.AmazonURL)
	assert.Equal(t, "Cocteau Twin", book.Author)
	assert.Equal(t, "Icelandic", book.Language)
	assert.Equal(t, 329, book.Pages)
	assert.Equal(t, "Penguin Random House", book.Publisher)
	assert.Equal(t, "Lorelei's Ghost", book.Title)
	assert.Equal(t, 1985, book.Year)
}

func TestValidateCreate_IgnoresUnknownFields(t *testing.T) {
	v := newTestValidator(t)

	payload := decodePayload(t, lorelei)
	payload["country"] = "Finland"
	payload["subtitle"] = "An amazing novel!"

	book, err := v.ValidateCreate(payload)
	require.NoError(t, err)
	assert.Equal(t, "5544778", book.ISBN)
}

func TestValidateCreate_MissingFields(t *testing.T) {
	v := newTestValidator(t)

	payload := decodePayload(t, `{
		"isbn": "57348574",
		"country": "Finland",
		"author": "Pete Hamp",
		"subtitle": "An amazing novel!"
	}`)

	_, err := v.ValidateCreate(payload)
	require.Error(t, err)

	violations, ok := IsViolation(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"amazon_url is required",
		"language is required",
		"pages is required",
		"publisher is required",
		"title is required",
		"year is required",
	}, violations.Messages())
}

func TestValidateCreate_TypeErrors(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name     string
		field    string
		value    any
		expected string
	}{
		{"pages as string", "pages", "545", "pages must be an integer"},
		{"pages as fraction", "pages", json.Number("12.5"), "pages must be an integer"},
		{"negative pages", "pages", json.Number("-1"), "pages must be at least 0"},
		{"year as bool", "year", true, "year must be an integer"},
		{"author as number", "author", json.Number("42"), "author must be a string"},
		{"empty title", "title", "", "title must not be empty"},
		{"empty isbn", "isbn", "", "isbn must not be empty"},
		{"null publisher", "publisher", nil, "publisher must be a string"},
		{"pages above int32", "pages", json.Number("3000000000"), "pages must be at most 2147483647"},
		{"pages at int64 max", "pages", json.Number("9223372036854775807"), "pages must be at most 2147483647"},
		{"pages in exponent form", "pages", json.Number("3e9"), "pages must be at most 2147483647"},
		{"pages as large decimal", "pages", json.Number("3000000000.0"), "pages must be at most 2147483647"},
		{"pages beyond float range", "pages", json.Number("1e400"), "pages must be at most 2147483647"},
		{"year below int32", "year", json.Number("-3000000000"), "year must be at least -2147483648"},
		{"year as large yaml int", "year", int(3000000000), "year must be at most 2147483647"},
		{"year as large int64", "year", int64(-3000000000), "year must be at least -2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodePayload(t, lorelei)
			payload[tt.field] = tt.value

			_, err := v.ValidateCreate(payload)
			violations, ok := IsViolation(err)
			require.True(t, ok)
			assert.Equal(t, []string{tt.expected}, violations.Messages())
		})
	}
}

func TestValidateCreate_AcceptsInt32Bounds(t *testing.T) {
	v := newTestValidator(t)

	payload := decodePayload(t, lorelei)
	payload["pages"] = json.Number("2147483647")
	payload["year"] = int64(-2147483648)

	accepted, violations := v.Validate(payload, ModeCreate)
	require.Nil(t, violations)
	assert.Equal(t, int64(math.MaxInt32), accepted["pages"])
	assert.Equal(t, int64(math.MinInt32), accepted["year"])
}

func TestValidateCreate_AcceptsIntegralFloats(t *testing.T) {
	v := newTestValidator(t)

	payload := decodePayload(t, lorelei)
	payload["pages"] = float64(300)
	payload["year"] = json.Number("2.001e3")

	book, err := v.ValidateCreate(payload)
	require.NoError(t, err)
	assert.Equal(t, 300, book.Pages)
	assert.Equal(t, 2001, book.Year)
}

func TestValidateUpdate_Partial(t *testing.T) {
	v := newTestValidator(t)

	patch, err := v.ValidateUpdate("753854367", decodePayload(t, `{"title": "Mongo", "pages": 403}`))
	require.NoError(t, err)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "Mongo", *patch.Title)
	require.NotNil(t, patch.Pages)
	assert.Equal(t, 403, *patch.Pages)
	assert.Nil(t, patch.Author)
	assert.Nil(t, patch.Year)
	assert.Equal(t, []string{"pages", "title"}, patch.Fields())
}

func TestValidateUpdate_EmptyPayload(t *testing.T) {
	v := newTestValidator(t)

	patch, err := v.ValidateUpdate("753854367", map[string]any{})
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())
}

func TestValidateUpdate_TypeErrors(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.ValidateUpdate("753854367", decodePayload(t, `{"year": "2005", "author": ""}`))
	violations, ok := IsViolation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"author must not be empty", "year must be an integer"}, violations.Messages())
}

func TestValidateUpdate_ISBN(t *testing.T) {
	v := newTestValidator(t)

	t.Run("same isbn is ignored", func(t *testing.T) {
		patch, err := v.ValidateUpdate("753854367", decodePayload(t, `{"isbn": "753854367", "title": "Mongo"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"title"}, patch.Fields())
	})

	t.Run("different isbn is rejected", func(t *testing.T) {
		_, err := v.ValidateUpdate("753854367", decodePayload(t, `{"isbn": "1111111", "title": "Mongo"}`))
		violations, ok := IsViolation(err)
		require.True(t, ok)
		assert.Equal(t, []string{"isbn cannot be changed"}, violations.Messages())
	})
}

func TestValidate_IsPure(t *testing.T) {
	v := newTestValidator(t)

	payload := decodePayload(t, lorelei)
	payload["extra"] = "kept"

	_, violations := v.Validate(payload, ModeCreate)
	require.Nil(t, violations)
	assert.Equal(t, "kept", payload["extra"])
	assert.Len(t, payload, 9)
}

func TestViolations_Error(t *testing.T) {
	violations := Violations{{Field: "title", Reason: "is required"}, {Field: "year", Reason: "is required"}}
	assert.Equal(t, "validation failed: title is required; year is required", violations.Error())
}
