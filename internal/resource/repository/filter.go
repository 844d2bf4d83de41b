package repository

import (
	"regexp"
	"strings"
	"time"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches evaluates the subset of the Mongo query language used by the
// services against an in-memory document.
func matches(d resource.Document, filter resource.Document) bool {
	for key, want := range filter {
		got := lookup(d, key)
		if !matchValue(got, want) {
			return false
		}
	}
	return true
}

func matchValue(got, want interface{}) bool {
	switch w := want.(type) {
	case primitive.Regex:
		return matchRegex(got, w)
	case resource.Document:
		return matchOperators(got, w)
	case map[string]interface{}:
		return matchOperators(got, resource.Document(w))
	}
	if arr := resource.ToSlice(got); arr != nil {
		for _, e := range arr {
			if equalValues(e, want) {
				return true
			}
		}
		return false
	}
	return equalValues(got, want)
}

func matchOperators(got interface{}, ops resource.Document) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			found := false
			for _, candidate := range resource.ToSlice(arg) {
				if matchValue(got, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$ne":
			if matchValue(got, arg) {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if (got != nil) != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchRegex(got interface{}, r primitive.Regex) bool {
	s, ok := got.(string)
	if !ok {
		return false
	}
	pattern := r.Pattern
	if strings.Contains(r.Options, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func equalValues(a, b interface{}) bool {
	if fa, ok := resource.ToFloat(a); ok {
		fb, ok := resource.ToFloat(b)
		return ok && fa == fb
	}
	if ta, ok := resource.ToTime(a); ok {
		tb, ok := resource.ToTime(b)
		return ok && ta.Equal(tb)
	}
	switch x := a.(type) {
	case primitive.ObjectID:
		switch y := b.(type) {
		case primitive.ObjectID:
			return x == y
		case string:
			return x.Hex() == y
		}
		return false
	case string:
		if y, ok := b.(primitive.ObjectID); ok {
			return x == y.Hex()
		}
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case nil:
		return b == nil
	}
	return false
}

// lookup resolves dotted paths such as "student.email".
func lookup(d resource.Document, path string) interface{} {
	var cur interface{} = d
	for _, part := range strings.Split(path, ".") {
		m := resource.ToDocument(cur)
		if m == nil {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func compareValues(a, b interface{}) int {
	if fa, ok := resource.ToFloat(a); ok {
		if fb, ok := resource.ToFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := resource.ToTime(a); ok {
		if tb, ok := resource.ToTime(b); ok {
			return compareTimes(ta, tb)
		}
	}
	sa, _ := a.(string)
	sb, _ := b.(string)
	return strings.Compare(sa, sb)
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
