package resource

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the loosely typed record every vertical persists. It is the same
// map type the Mongo driver decodes into, so memory and Mongo repositories hand
// back identical shapes.
type Document = bson.M

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrDuplicate = errors.New("duplicate key")
)

// ValidationError reports a rejected field value. Handlers map it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Projection selects the fields returned by a read. Include and Exclude are
// mutually exclusive; Include always keeps _id.
type Projection struct {
	Include []string
	Exclude []string
}

func Include(fields ...string) Projection { return Projection{Include: fields} }
func Exclude(fields ...string) Projection { return Projection{Exclude: fields} }

func (p Projection) IsZero() bool { return len(p.Include) == 0 && len(p.Exclude) == 0 }

// Apply returns a copy of d restricted by the projection. Only top-level
// fields are considered.
func (p Projection) Apply(d Document) Document {
	if d == nil || p.IsZero() {
		return d
	}
	out := Document{}
	if len(p.Include) > 0 {
		if id, ok := d["_id"]; ok {
			out["_id"] = id
		}
		for _, f := range p.Include {
			if v, ok := d[f]; ok {
				out[f] = v
			}
		}
		return out
	}
	for k, v := range d {
		out[k] = v
	}
	for _, f := range p.Exclude {
		delete(out, f)
	}
	return out
}

// BSON renders the projection for the Mongo driver.
func (p Projection) BSON() bson.M {
	if p.IsZero() {
		return nil
	}
	out := bson.M{}
	for _, f := range p.Include {
		out[f] = 1
	}
	for _, f := range p.Exclude {
		out[f] = 0
	}
	return out
}

// FindOptions tunes list reads.
type FindOptions struct {
	Projection Projection
	Sort       string
	Desc       bool
}

// ParseID converts a hex string into an ObjectID.
func ParseID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// IsValidID reports whether s is a well-formed ObjectID.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(strings.TrimSpace(s))
}

// ID returns the _id of d, accepting both ObjectID and hex string storage.
func ID(d Document) primitive.ObjectID {
	switch v := d["_id"].(type) {
	case primitive.ObjectID:
		return v
	case string:
		oid, _ := primitive.ObjectIDFromHex(v)
		return oid
	}
	return primitive.NilObjectID
}

// String returns d[key] as a string, or "" when missing or not a string.
func String(d Document, key string) string {
	s, _ := d[key].(string)
	return s
}

// Number returns d[key] as a float64 for any numeric representation.
func Number(d Document, key string) (float64, bool) {
	return ToFloat(d[key])
}

// Bool returns d[key] as a bool.
func Bool(d Document, key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Slice returns d[key] as a slice.
func Slice(d Document, key string) []interface{} {
	return ToSlice(d[key])
}

// Map returns d[key] as a Document.
func Map(d Document, key string) Document {
	return ToDocument(d[key])
}

// ToFloat converts the numeric types produced by JSON and BSON decoding.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ToSlice normalizes []interface{} and primitive.A.
func ToSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case primitive.A:
		return []interface{}(s)
	case []string:
		out := make([]interface{}, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	case []primitive.ObjectID:
		out := make([]interface{}, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	}
	return nil
}

// ToDocument normalizes nested objects from JSON and BSON decoding.
func ToDocument(v interface{}) Document {
	switch m := v.(type) {
	case bson.M:
		return m
	case map[string]interface{}:
		return Document(m)
	case bson.D:
		return m.Map()
	}
	return nil
}

// ToTime converts stored timestamps.
func ToTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

// Clone deep-copies maps and slices so callers cannot mutate stored state.
func Clone(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case bson.M:
		return Clone(x)
	case map[string]interface{}:
		return Clone(Document(x))
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// Truthy drops empty strings, zero numbers, false and nil from patch. Used by
// update endpoints that only overwrite fields the client actually filled in.
func Truthy(patch Document) Document {
	out := Document{}
	for k, v := range patch {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			if x == "" {
				continue
			}
		case bool:
			if !x {
				continue
			}
		case float64:
			if x == 0 {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Letters returns the upper-case alphabet minus the excluded letters.
func Letters(exclude ...string) []string {
	skip := map[string]bool{}
	for _, e := range exclude {
		skip[strings.ToUpper(e)] = true
	}
	out := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		if !skip[string(c)] {
			out = append(out, string(c))
		}
	}
	return out
}

// IsLetter reports whether s is exactly one ASCII letter.
func IsLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0] | 0x20
	return c >= 'a' && c <= 'z'
}
