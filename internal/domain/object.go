package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that keeps its keys in insertion order.
type Object struct {
	fields *orderedmap.OrderedMap[string, any]
}

func NewObject() *Object {
	return &Object{
		fields: orderedmap.New[string, any](),
	}
}

// Set stores value under key. An existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.fields == nil {
		o.fields = orderedmap.New[string, any]()
	}
	o.fields.Set(key, value)
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.fields == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, o.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the values in key order.
func (o *Object) Values() []any {
	if o.Len() == 0 {
		return nil
	}
	values := make([]any, 0, o.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// Clone returns a shallow copy; nested values are shared.
func (o *Object) Clone() *Object {
	clone := &Object{
		fields: orderedmap.New[string, any](o.Len()),
	}
	if o.Len() == 0 {
		return clone
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		clone.fields.Set(pair.Key, pair.Value)
	}
	return clone
}

// MarshalJSON writes the fields in key order without HTML escaping. Numbers
// are written in their shortest float form, so 1.0, 1E2 and 1.50 come out as
// 1, 100 and 1.5.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	if o.Len() > 0 {
		for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
			if pair != o.fields.Oldest() {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, pair.Value); err != nil {
				return fmt.Errorf("field %q: %w", pair.Key, err)
			}
		}
	}
	buf.WriteByte('}')
	return nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return errors.New("json value is not an object")
	}
	*o = *obj
	return nil
}

// Decode parses a single JSON document. Objects decode as *Object with their
// source key order, arrays as []any and numbers as json.Number. A repeated key
// keeps its first position and takes the last value.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("invalid json: unexpected data after top-level value")
		}
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("invalid json: object key %v is not a string", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]any, 0)
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("invalid json: unexpected delimiter %q", delim)
}

// encodeValue writes v as JSON without HTML escaping, walking decoded
// objects and arrays so every nested number is normalized.
func encodeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *Object:
		return val.encode(buf)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		return encodeScalar(buf, normalizeNumber(val))
	}
	return encodeScalar(buf, v)
}

// normalizeNumber turns a number literal into the float it denotes. Literals
// beyond float64 range have no finite value and encode as null.
func normalizeNumber(n json.Number) any {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	if f == 0 {
		// Drops the sign of -0.
		return float64(0)
	}
	return f
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
