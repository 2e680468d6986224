package docstore

import "github.com/spf13/cast"

// Field accessors decode leniently: documents come from more than one writer
// and older ones may carry strings where numbers are expected, or nothing.

// String returns the field as a string, "" when missing.
func (d Document) String(key string) string {
	v, ok := d.Data[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// OptionalString returns nil when the field is missing, null or empty.
func (d Document) OptionalString(key string) *string {
	s := d.String(key)
	if s == "" {
		return nil
	}
	return &s
}

// Int64 returns the field as an integer, 0 when missing or malformed.
func (d Document) Int64(key string) int64 {
	n, err := cast.ToInt64E(d.Data[key])
	if err != nil {
		f, ferr := cast.ToFloat64E(d.Data[key])
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}

// Count returns the field as a non-negative integer; negative values become 0.
func (d Document) Count(key string) int64 {
	n := d.Int64(key)
	if n < 0 {
		return 0
	}
	return n
}
