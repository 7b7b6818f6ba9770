package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRegexp       = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
	looseFloatRegexp = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
)

// Fields is the raw, order-preserving view of a JSON object. Records keep it
// so that keys they do not model survive a load/save cycle unchanged and in
// their original position.
type Fields struct {
	keys []string
	vals map[string]json.RawMessage
}

func decodeFields(data []byte) (Fields, error) {
	f := Fields{vals: map[string]json.RawMessage{}}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return f, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return f, fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return f, err
		}
		key, ok := tok.(string)
		if !ok {
			return f, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return f, fmt.Errorf("key %q: %w", key, err)
		}
		f.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return f, err
	}
	return f, nil
}

func (f *Fields) set(key string, raw json.RawMessage) {
	if f.vals == nil {
		f.vals = map[string]json.RawMessage{}
	}
	if _, exists := f.vals[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = raw
}

// Raw returns the undecoded value for key.
func (f Fields) Raw(key string) (json.RawMessage, bool) {
	raw, ok := f.vals[key]
	return raw, ok
}

// IsNull reports whether key is absent or explicitly null.
func (f Fields) IsNull(key string) bool {
	raw, ok := f.vals[key]
	return !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns a string value. Numbers are returned in their JSON form.
func (f Fields) String(key string) string {
	if f.IsNull(key) {
		return ""
	}
	raw := f.vals[key]
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Float returns a numeric value. Strings such as "12,5" or "ca. 3.4 Mio"
// are parsed leniently; anything unparseable yields nil.
func (f Fields) Float(key string) *float64 {
	if f.IsNull(key) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(f.vals[key], &v); err == nil {
		return &v
	}
	return parseLooseFloat(f.String(key))
}

// Year returns a four-digit year from a number or from text such as "um 1908".
func (f Fields) Year(key string) *int {
	if f.IsNull(key) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(f.vals[key], &v); err == nil {
		n := int(v)
		return &n
	}
	return ExtractYear(f.String(key))
}

// ExtractYear finds the first plausible year (1800–2099) in s.
func ExtractYear(s string) *int {
	m := yearRegexp.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

func parseLooseFloat(s string) *float64 {
	m := looseFloatRegexp.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

// merge encodes v and lays its keys over the raw fields, then the keys of
// overlay if it is non-nil. Later keys win; everything else is written
// back as it was read. New keys follow the original ones in encoding order.
//
// v must not be a type whose MarshalJSON calls merge, pass an alias.
func (f Fields) merge(v, overlay any) ([]byte, error) {
	out := Fields{vals: make(map[string]json.RawMessage, len(f.keys))}
	for _, k := range f.keys {
		out.set(k, f.vals[k])
	}
	for _, src := range []any{v, overlay} {
		if src == nil {
			continue
		}
		encoded, err := marshalNoEscape(src)
		if err != nil {
			return nil, err
		}
		own, err := decodeFields(encoded)
		if err != nil {
			return nil, err
		}
		for _, k := range own.keys {
			out.set(k, own.vals[k])
		}
	}
	return out.encode()
}

func (f Fields) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
