package domain

import (
	"bytes"
	"strconv"
)

// Reserved keys added to every record. Source fields with these names are
// overwritten in place.
const (
	FieldID           = "_id"
	FieldCategory     = "_category"
	FieldPriceWithTax = "price_with_tax"
	FieldPrice        = "price"
)

// Record is a source item enriched with its catalog identity and taxed price.
type Record struct {
	ID           string
	Category     string
	PriceWithTax *float64

	fields *Object
}

// NewRecord copies the source fields and appends the reserved keys.
// A nil source yields a record carrying only the reserved keys.
func NewRecord(source *Object, category string, index int, priceWithTax *float64) *Record {
	id := RecordID(category, index)

	fields := source.Clone()
	fields.Set(FieldID, id)
	fields.Set(FieldCategory, category)
	if priceWithTax != nil {
		fields.Set(FieldPriceWithTax, *priceWithTax)
	} else {
		fields.Set(FieldPriceWithTax, nil)
	}

	return &Record{
		ID:           id,
		Category:     category,
		PriceWithTax: priceWithTax,
		fields:       fields,
	}
}

// RecordID formats the positional identifier "<category>:<index>".
func RecordID(category string, index int) string {
	return category + ":" + strconv.Itoa(index)
}

// Get returns a field of the enriched record, reserved keys included.
func (r *Record) Get(key string) (any, bool) {
	return r.fields.Get(key)
}

// Fields exposes the flattened field set. Callers must not mutate it.
func (r *Record) Fields() *Object {
	return r.fields
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.fields.MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	fields := NewObject()
	if err := fields.UnmarshalJSON(bytes.TrimSpace(data)); err != nil {
		return err
	}

	rec := Record{fields: fields}
	if v, ok := fields.Get(FieldID); ok {
		rec.ID, _ = v.(string)
	}
	if v, ok := fields.Get(FieldCategory); ok {
		rec.Category, _ = v.(string)
	}
	if v, ok := fields.Get(FieldPriceWithTax); ok {
		if n, ok := numberValue(v); ok {
			rec.PriceWithTax = &n
		}
	}

	*r = rec
	return nil
}
