package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[1.50,"<x>"]}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	nested, _ := obj.Get("a")
	require.IsType(t, &Object{}, nested)
	assert.Equal(t, []string{"y", "b"}, nested.(*Object).Keys())

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1.5,"\u003cx\u003e"]}`, string(out))

	text, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1.5,"<x>"]}`, string(text))
}

func TestObject_MarshalJSONNormalizesNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"n":1.0}`, `{"n":1}`},
		{`{"n":1E2}`, `{"n":100}`},
		{`{"n":1.50}`, `{"n":1.5}`},
		{`{"n":-0}`, `{"n":0}`},
		{`{"n":1e400}`, `{"n":null}`},
		{`{"n":0.0000001}`, `{"n":1e-7}`},
		{`{"n":1e21}`, `{"n":1e+21}`},
		{`{"a":[{"n":2.50}],"s":"1.50"}`, `{"a":[{"n":2.5}],"s":"1.50"}`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Decode([]byte(tt.raw))
			require.NoError(t, err)

			out, err := v.(*Object).MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestDecode_DuplicateKeys(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	got, _ := obj.Get("a")
	assert.Equal(t, json.Number("3"), got)
}

func TestDecode_Errors(t *testing.T) {
	for _, raw := range []string{``, `   `, `{`, `{"a"}`, `[1 2]`, `}`, `[] []`} {
		_, err := Decode([]byte(raw))
		assert.Error(t, err, "%q", raw)
	}
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":2}`), &obj))
	assert.Equal(t, []string{"b", "a"}, obj.Keys())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &obj))
}

func TestObject_Clone(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1)

	clone := obj.Clone()
	clone.Set("b", 2)
	clone.Set("a", 3)

	assert.Equal(t, []string{"a"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a", "b"}, clone.Keys())

	var empty *Object
	assert.Equal(t, 0, empty.Clone().Len())
}

func TestRecord_RoundTrip(t *testing.T) {
	src := NewObject()
	src.Set("name", "Leche")
	price := 5.58
	rec := NewRecord(src, "lacteos_frescos", 0, &price)

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "lacteos_frescos:0", decoded.ID)
	assert.Equal(t, "lacteos_frescos", decoded.Category)
	require.NotNil(t, decoded.PriceWithTax)
	assert.Equal(t, 5.58, *decoded.PriceWithTax)
	name, _ := decoded.Get("name")
	assert.Equal(t, "Leche", name)

	// Source fields are copied, not shared.
	assert.Equal(t, 1, src.Len())
}

func TestCatalog_PutKeepsPositionAndReplaces(t *testing.T) {
	c := NewCatalog()
	c.Put("a", []*Record{NewRecord(nil, "a", 0, nil)})
	c.Put("b", nil)
	c.Put("a", []*Record{NewRecord(nil, "a", 0, nil), NewRecord(nil, "a", 1, nil)})

	assert.Equal(t, []string{"a", "b"}, c.Names())
	a, _ := c.Get("a")
	assert.Len(t, a, 2)

	b, ok := c.Get("b")
	assert.True(t, ok)
	assert.NotNil(t, b)
	assert.Empty(t, b)

	_, ok = c.Get("c")
	assert.False(t, ok)
}

func TestCatalog_MergeAndEach(t *testing.T) {
	c := NewCatalog()
	c.Put("x", nil)
	other := NewCatalog()
	other.Put("y", nil)
	other.Put("x", []*Record{NewRecord(nil, "x", 0, nil)})
	c.Merge(other)

	assert.Equal(t, []string{"x", "y"}, c.Names())
	x, _ := c.Get("x")
	assert.Len(t, x, 1)

	var visited []string
	c.Each(func(name string, _ []*Record) bool {
		visited = append(visited, name)
		return false
	})
	assert.Equal(t, []string{"x"}, visited)

	var nilCatalog *Catalog
	assert.Empty(t, nilCatalog.Names())
	assert.Equal(t, 0, nilCatalog.Len())
}
