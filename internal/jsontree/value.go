package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "null"
	}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []Value
	fields map[string]Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps the textual number n. The text is kept as written.
func NumberValue(n json.Number) Value { return Value{kind: Number, num: n} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue wraps items in order.
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value(nil), items...)}
}

// ObjectValue wraps fields. The map is copied.
func ObjectValue(fields map[string]Value) Value {
	dup := make(map[string]Value, len(fields))
	for k, v := range fields {
		dup[k] = v
	}
	return Value{kind: Object, fields: dup}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Number returns the number exactly as it was written.
func (v Value) Number() json.Number { return v.num }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// IsComposite reports whether v is an array or an object.
func (v Value) IsComposite() bool { return v.kind == Array || v.kind == Object }

// Field looks up key on an object.
func (v Value) Field(key string) (Value, bool) {
	f, ok := v.fields[key]
	return f, ok
}

// Len returns the element count of a composite and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.fields)
	}
	return 0
}

// Items returns a copy of the array elements.
func (v Value) Items() []Value {
	return append([]Value(nil), v.items...)
}

// Keys returns the object keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode parses data as a single JSON document. Anything that fails to
// parse, including trailing garbage, decodes to null.
func Decode(data []byte) Value {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return NullValue()
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return NullValue()
	}
	return fromAny(raw)
}

// FromValue encodes v with encoding/json and decodes the result. Values that
// cannot be encoded become null.
func FromValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case json.RawMessage:
		return Decode(t)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return NullValue()
	}
	return Decode(data)
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case json.Number:
		return NumberValue(t)
	case string:
		return StringValue(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromAny(item)
		}
		return Value{kind: Array, items: items}
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = fromAny(item)
		}
		return Value{kind: Object, fields: fields}
	}
	return NullValue()
}

// Interface converts v back to plain Go values: map[string]any, []any,
// float64, string, bool and nil.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		if f, err := v.num.Float64(); err == nil {
			return f
		}
		return v.num.String()
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.fields))
		for k, item := range v.fields {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// MarshalJSON encodes v with sorted object keys.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeCompact(&buf, v)
	return buf.Bytes(), nil
}

func writeCompact(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCompact(buf, item)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(k))
			buf.WriteByte(':')
			writeCompact(buf, v.fields[k])
		}
		buf.WriteByte('}')
	default:
		buf.WriteString(scalarText(v))
	}
}

// scalarText renders a non-composite value as JSON text.
func scalarText(v Value) string {
	switch v.kind {
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return v.num.String()
	case String:
		return quote(v.str)
	}
	return "null"
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
