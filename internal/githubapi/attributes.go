package githubapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the only date-time form the API uses for "_at" fields.
const TimestampLayout = "2006-01-02T15:04:05Z"

const timestampSuffix = "_at"

// Attributes holds the fields of a fetched JSON object. Values keep their
// JSON type (string, json.Number, bool, nil, map[string]any, []any) except
// top-level "_at" fields, which hold a time.Time or nil.
type Attributes map[string]any

// parseAttributes copies raw into a new Attributes, coercing timestamp fields.
// raw itself is never modified.
func parseAttributes(raw map[string]any) (Attributes, error) {
	attrs := make(Attributes, len(raw))
	for name, value := range raw {
		if strings.HasSuffix(name, timestampSuffix) && value != nil {
			ts, err := parseTimestamp(name, value)
			if err != nil {
				return nil, err
			}
			value = ts
		}
		attrs[name] = value
	}
	return attrs, nil
}

func parseTimestamp(name string, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(TimestampLayout, v)
		// time.Parse accepts fractional seconds the layout does not name.
		if err != nil || ts.Format(TimestampLayout) != v {
			return time.Time{}, fmt.Errorf("%w: %s=%q", ErrMalformedTimestamp, name, v)
		}
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s has type %T", ErrMalformedTimestamp, name, value)
	}
}

// Lookup returns the value of name and whether it was present.
func (a Attributes) Lookup(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Get returns the value of name or ErrMissingAttribute.
func (a Attributes) Get(name string) (any, error) {
	v, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
	}
	return v, nil
}

// String returns a string field. A null value yields "".
func (a Attributes) String(name string) (string, error) {
	v, err := a.Get(name)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(name, "string", v)
	}
	return s, nil
}

// Int returns an integer field.
func (a Attributes) Int(name string) (int64, error) {
	v, err := a.Get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, typeError(name, "integer", v)
		}
		return i, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, typeError(name, "integer", v)
		}
		return int64(n), nil
	default:
		return 0, typeError(name, "integer", v)
	}
}

// Bool returns a boolean field.
func (a Attributes) Bool(name string) (bool, error) {
	v, err := a.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(name, "bool", v)
	}
	return b, nil
}

// Time returns a timestamp field, or nil when the value is null.
func (a Attributes) Time(name string) (*time.Time, error) {
	v, err := a.Get(name)
	if err != nil || v == nil {
		return nil, err
	}
	ts, ok := v.(time.Time)
	if !ok {
		return nil, typeError(name, "timestamp", v)
	}
	return &ts, nil
}

// Object returns a nested object field. Nested objects are not timestamp-coerced.
func (a Attributes) Object(name string) (Attributes, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeError(name, "object", v)
	}
	return Attributes(m), nil
}

func typeError(name, want string, got any) error {
	return fmt.Errorf("%w: %s is %T, want %s", ErrAttributeType, name, got, want)
}
