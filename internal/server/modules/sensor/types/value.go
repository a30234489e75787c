package types

import (
	"encoding/json"
	"strconv"
)

// sentinel is what unknown fields serialize to at the JSON boundary.
const sentinel = "-"

// Value is one loosely-typed sensor field. Devices report strings and
// numbers interchangeably, and firmware omits fields it cannot read, so a
// Value is either set (carrying the original JSON token) or unknown.
// Unknown values render as the "-" sentinel. Falsy inputs (null, empty
// string, 0, false, the sentinel itself) count as unknown.
type Value struct {
	raw  string // original JSON token, only valid when ok
	text string // display form of the token
	ok   bool
}

// String returns the display form, or the sentinel when unknown.
func (v Value) String() string {
	if !v.ok {
		return sentinel
	}
	return v.text
}

// IsSet reports whether the device supplied a usable value.
func (v Value) IsSet() bool {
	return v.ok
}

// Int64 parses the value as a base-10 integer.
func (v Value) Int64() (int64, bool) {
	if !v.ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var decoded interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}

	switch t := decoded.(type) {
	case string:
		if t == "" || t == sentinel {
			*v = Value{}
			return nil
		}
		*v = Value{raw: string(b), text: t, ok: true}
	case float64:
		if t == 0 {
			*v = Value{}
			return nil
		}
		*v = Value{raw: string(b), text: strconv.FormatFloat(t, 'f', -1, 64), ok: true}
	case bool:
		if !t {
			*v = Value{}
			return nil
		}
		*v = Value{raw: string(b), text: "true", ok: true}
	default:
		// null, arrays, objects: no usable scalar.
		*v = Value{}
	}
	return nil
}

// MarshalJSON echoes the original token (so numbers stay numbers on the
// wire) and emits the sentinel string for unknown values.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return json.Marshal(sentinel)
	}
	return []byte(v.raw), nil
}

// StringValue builds a set Value from a plain string. Empty strings and the
// sentinel yield an unknown Value.
func StringValue(s string) Value {
	if s == "" || s == sentinel {
		return Value{}
	}
	raw, _ := json.Marshal(s)
	return Value{raw: string(raw), text: s, ok: true}
}
