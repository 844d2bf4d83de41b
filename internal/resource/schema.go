package resource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
	KindDate
	KindObjectID
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDate:
		return "date"
	case KindObjectID:
		return "ObjectId"
	}
	return "any"
}

// Field describes one top-level document field. Rules is a validator tag
// applied to the converted value (e.g. "oneof=men women", "min=1,max=5").
type Field struct {
	Name     string
	Kind     Kind
	Elem     Kind
	Required bool
	Rules    string
	Default  interface{}
	Message  string
}

// Schema declares the shape of a collection's documents.
type Schema struct {
	Collection string
	Fields     []Field
	Timestamps bool
	// Loose keeps fields that are not declared.
	Loose bool
}

var validate = validator.New()

// Field returns the named field definition.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Prepare validates a full document for insertion: required fields, kinds,
// rules and defaults. The returned document only carries declared fields
// unless the schema is loose.
func (s *Schema) Prepare(in Document) (Document, error) {
	return s.prepare(in, false)
}

// PreparePatch validates the fields present in an update. Required checks
// only reject explicit empty values.
func (s *Schema) PreparePatch(in Document) (Document, error) {
	return s.prepare(in, true)
}

func (s *Schema) prepare(in Document, partial bool) (Document, error) {
	out := Document{}
	if s.Loose {
		for k, v := range in {
			out[k] = v
		}
	}
	for _, f := range s.Fields {
		raw, present := in[f.Name]
		if !present || isEmpty(raw) {
			if partial {
				if present && f.Required {
					return nil, f.fail("%s is required", f.Name)
				}
				continue
			}
			if f.Required {
				return nil, f.fail("%s is required", f.Name)
			}
			if f.Default != nil {
				out[f.Name] = cloneValue(f.Default)
			} else if present && raw != nil {
				out[f.Name] = raw
			}
			continue
		}
		v, err := convert(f.Kind, raw)
		if err != nil {
			return nil, f.fail("%s must be of type %s", f.Name, f.Kind)
		}
		if f.Kind == KindArray && f.Elem != KindAny {
			items := v.([]interface{})
			for i, item := range items {
				cv, err := convert(f.Elem, item)
				if err != nil {
					return nil, f.fail("%s[%d] must be of type %s", f.Name, i, f.Elem)
				}
				items[i] = cv
			}
		}
		if f.Rules != "" {
			if err := validate.Var(v, f.Rules); err != nil {
				return nil, f.ruleError(err)
			}
		}
		out[f.Name] = v
	}
	for _, k := range []string{"_id", "createdAt", "updatedAt"} {
		delete(out, k)
	}
	return out, nil
}

func (f Field) fail(format string, args ...interface{}) error {
	if f.Message != "" {
		return &ValidationError{Field: f.Name, Message: f.Message}
	}
	return Invalid(f.Name, format, args...)
}

func (f Field) ruleError(err error) error {
	if f.Message != "" {
		return &ValidationError{Field: f.Name, Message: f.Message}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "oneof":
			return Invalid(f.Name, "%v is not a valid value (allowed: %s)", fe.Value(), strings.ReplaceAll(fe.Param(), "'", ""))
		case "min", "gte":
			return Invalid(f.Name, "must be at least %s", fe.Param())
		case "max", "lte":
			return Invalid(f.Name, "must be at most %s", fe.Param())
		case "eq":
			return Invalid(f.Name, "must be %s", fe.Param())
		case "email":
			return Invalid(f.Name, "must be a valid email address")
		}
		return Invalid(f.Name, "failed on the '%s' rule", fe.Tag())
	}
	return Invalid(f.Name, "%v", err)
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func convert(k Kind, v interface{}) (interface{}, error) {
	switch k {
	case KindAny:
		return v, nil
	case KindString:
		switch x := v.(type) {
		case string:
			return strings.TrimSpace(x), nil
		case float64, int, int32, int64, bool:
			return fmt.Sprint(x), nil
		}
	case KindNumber:
		if n, ok := ToFloat(v); ok {
			return n, nil
		}
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return n, nil
			}
		}
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return b, nil
			}
		}
	case KindArray:
		if s := ToSlice(v); s != nil {
			return append([]interface{}{}, s...), nil
		}
	case KindObject:
		if d := ToDocument(v); d != nil {
			return d, nil
		}
	case KindDate:
		if t, ok := ToTime(v); ok {
			return t, nil
		}
		if s, ok := v.(string); ok {
			for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
				if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
					return t.UTC(), nil
				}
			}
		}
	case KindObjectID:
		switch x := v.(type) {
		case primitive.ObjectID:
			return x, nil
		case string:
			if oid, err := primitive.ObjectIDFromHex(x); err == nil {
				return oid, nil
			}
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, k)
}
