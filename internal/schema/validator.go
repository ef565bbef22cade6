package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/mrlokans/books-api/internal/entities"
)

// Violation is a single field-level rejection reason.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + " " + v.Reason
}

// Violations is returned as an error whenever a payload is rejected.
// It is never empty when returned.
type Violations []Violation

func (v Violations) Error() string {
	return "validation failed: " + strings.Join(v.Messages(), "; ")
}

// Messages renders the violations in order as "field reason" strings.
func (v Violations) Messages() []string {
	messages := make([]string, len(v))
	for i, violation := range v {
		messages[i] = violation.String()
	}
	return messages
}

// Validator checks untyped payloads against a Schema.
type Validator struct {
	schema   *Schema
	validate *validator.Validate
}

// NewValidator builds a validator and rejects schemas whose rule tags
// validator/v10 does not understand.
func NewValidator(s *Schema) (*Validator, error) {
	v := &Validator{schema: s, validate: validator.New()}
	for _, f := range s.Fields {
		if err := v.checkRules(f); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Schema returns the description this validator enforces.
func (v *Validator) Schema() *Schema {
	return v.schema
}

func (v *Validator) checkRules(f Field) (err error) {
	if f.Rules == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field %q has invalid rules %q: %v", f.Name, f.Rules, r)
		}
	}()
	var sample any = ""
	if f.Type == TypeInteger {
		sample = int64(0)
	}
	_ = v.validate.Var(sample, f.Rules)
	return nil
}

// Validate checks payload in the given mode. On success it returns only the
// schema fields that were present, normalized to string or int64. Unknown keys
// are dropped silently.
func (v *Validator) Validate(payload map[string]any, mode Mode) (map[string]any, Violations) {
	accepted := make(map[string]any, len(v.schema.Fields))
	var violations Violations

	for _, f := range v.schema.Fields {
		raw, present := payload[f.Name]
		if !present {
			if f.RequiredIn(mode) {
				violations = append(violations, Violation{Field: f.Name, Reason: "is required"})
			}
			continue
		}

		value, reason := normalize(f.Type, raw)
		if reason != "" {
			violations = append(violations, Violation{Field: f.Name, Reason: reason})
			continue
		}

		if f.Rules != "" {
			if err := v.validate.Var(value, f.Rules); err != nil {
				violations = append(violations, Violation{Field: f.Name, Reason: ruleReason(f.Type, err)})
				continue
			}
		}

		accepted[f.Name] = value
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return accepted, nil
}

// ValidateCreate validates a full payload and decodes it into a Book.
func (v *Validator) ValidateCreate(payload map[string]any) (entities.Book, error) {
	var book entities.Book
	accepted, violations := v.Validate(payload, ModeCreate)
	if violations != nil {
		return book, violations
	}
	if err := decode(accepted, &book); err != nil {
		return book, err
	}
	return book, nil
}

// ValidateUpdate validates a partial payload addressed at key and decodes it
// into a BookPatch. Immutable fields may only repeat their current value for
// the key field; anything else is a violation.
func (v *Validator) ValidateUpdate(key string, payload map[string]any) (entities.BookPatch, error) {
	var patch entities.BookPatch
	accepted, violations := v.Validate(payload, ModeUpdate)
	if violations != nil {
		return patch, violations
	}

	for _, f := range v.schema.Fields {
		if !f.Immutable {
			continue
		}
		value, present := accepted[f.Name]
		if !present {
			continue
		}
		if f.Name == v.schema.Key && value == key {
			delete(accepted, f.Name)
			continue
		}
		violations = append(violations, Violation{Field: f.Name, Reason: "cannot be changed"})
	}
	if len(violations) > 0 {
		return patch, violations
	}

	if err := decode(accepted, &patch); err != nil {
		return patch, err
	}
	return patch, nil
}

// IsViolation reports whether err carries payload violations.
func IsViolation(err error) (Violations, bool) {
	var violations Violations
	if errors.As(err, &violations) {
		return violations, true
	}
	return nil, false
}

func decode(accepted map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := dec.Decode(accepted); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// normalize converts raw into the field's Go type. A non-empty reason means
// the value was rejected.
func normalize(t FieldType, raw any) (any, string) {
	switch t {
	case TypeString:
		if s, ok := raw.(string); ok {
			return s, ""
		}
		return nil, typeReason(t)
	case TypeInteger:
		return toInt64(raw)
	}
	return nil, typeReason(t)
}

// toInt64 accepts integers and integral floats within int32 range, however
// the number was written.
func toInt64(raw any) (any, string) {
	switch n := raw.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return inInt32Range(i)
		}
		f, err := n.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, typeReason(TypeInteger)
		}
		return integral(f)
	case float64:
		return integral(n)
	case int:
		return inInt32Range(int64(n))
	case int32:
		return int64(n), ""
	case int64:
		return inInt32Range(n)
	case uint64:
		if n > math.MaxInt32 {
			return nil, tooLarge
		}
		return int64(n), ""
	}
	return nil, typeReason(TypeInteger)
}

var (
	tooLarge = "must be at most " + strconv.Itoa(math.MaxInt32)
	tooSmall = "must be at least " + strconv.Itoa(math.MinInt32)
)

func inInt32Range(i int64) (any, string) {
	switch {
	case i > math.MaxInt32:
		return nil, tooLarge
	case i < math.MinInt32:
		return nil, tooSmall
	}
	return i, ""
}

func integral(f float64) (any, string) {
	if math.IsNaN(f) || (!math.IsInf(f, 0) && f != math.Trunc(f)) {
		return nil, typeReason(TypeInteger)
	}
	switch {
	case f > math.MaxInt32:
		return nil, tooLarge
	case f < math.MinInt32:
		return nil, tooSmall
	}
	return int64(f), ""
}

func typeReason(t FieldType) string {
	if t == TypeInteger {
		return "must be an integer"
	}
	return "must be a string"
}

func ruleReason(t FieldType, err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "is invalid"
	}

	fe := errs[0]
	switch fe.Tag() {
	case "min":
		if t == TypeString {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if t == TypeString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "url", "uri", "http_url":
		return "must be a URL"
	default:
		return "failed rule " + fe.Tag()
	}
}
