package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString is a string field that tolerates JSON numbers and null. Uploaded
// files routinely carry PLU codes and pack descriptors as bare numbers; the
// engine treats them as their string form. Leading and trailing whitespace is
// stripped on decode so blank-ish cells read as empty.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	// Arrays/objects are not coercible; read as absent rather than failing
	// the whole batch.
	*f = ""
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String returns the raw value.
func (f FlexString) String() string { return string(f) }

// IsBlank reports whether the field is empty after trimming.
func (f FlexString) IsBlank() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Lower returns the trimmed, lowercased value for case-insensitive matching.
func (f FlexString) Lower() string {
	return strings.ToLower(strings.TrimSpace(string(f)))
}

// FlexNumber is a numeric field that tolerates JSON strings and null. A value
// that cannot be parsed decodes as absent (Valid=false); it never produces a
// decode error, and absent values must never be mistaken for zero.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexNumber{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, ok := parseLooseFloat(s); ok {
			*f = FlexNumber{Value: v, Valid: true}
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexNumber{Value: v, Valid: true}
	}
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Float returns the value and whether it is present.
func (f FlexNumber) Float() (float64, bool) {
	return f.Value, f.Valid
}

// Num builds a present FlexNumber. Test and fixture helper.
func Num(v float64) FlexNumber {
	return FlexNumber{Value: v, Valid: true}
}

// parseLooseFloat parses prices as they appear in spreadsheets: optional
// currency sign and thousands separators.
func parseLooseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
