package jsonlib

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Flatten holds the keys a type knows about in Defined and every other
// top level key in Extra, so documents written by other tools survive a round trip.
// T has to marshal into a JSON object.
type Flatten[T any] struct {
	Defined T
	Extra   map[string]any
}

func NewFlatten[T any](defined T) Flatten[T] {
	return Flatten[T]{
		Defined: defined,
		Extra:   map[string]any{},
	}
}

// MarshalJSON writes Defined over Extra, a defined key always wins
func (f Flatten[T]) MarshalJSON() ([]byte, error) {
	definedFields, err := StructToMap(f.Defined)
	if err != nil {
		return nil, errors.Wrap(err, "Could not convert defined fields into a map")
	}

	merged := make(map[string]any, len(f.Extra)+len(definedFields))
	for key, value := range f.Extra {
		merged[key] = value
	}
	for key, value := range definedFields {
		merged[key] = value
	}

	return json.Marshal(merged)
}

func (f *Flatten[T]) UnmarshalJSON(b []byte) error {
	rawFields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &rawFields); err != nil {
		return errors.Wrap(err, "Could not unmarshal json data into a map")
	}

	var defined T
	if err := json.Unmarshal(b, &defined); err != nil {
		return errors.Wrap(err, "Could not unmarshal json data into defined fields")
	}

	definedFields, err := StructToMap(defined)
	if err != nil {
		return errors.Wrap(err, "Could not convert defined fields to a map")
	}

	extra := map[string]any{}
	for key, raw := range rawFields {
		if _, isDefined := definedFields[key]; isDefined {
			continue
		}

		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return errors.Wrapf(err, "Could not unmarshal extra field %s", key)
		}
		extra[key] = value
	}

	f.Defined = defined
	f.Extra = extra
	return nil
}

func (f Flatten[T]) ToMap() (map[string]any, error) {
	return StructToMap(f)
}

func (f *Flatten[T]) FromMap(m map[string]any) error {
	parsed, err := MapToStruct[Flatten[T]](m)
	if err != nil {
		return errors.Wrap(err, "Could not convert map to struct")
	}

	*f = parsed
	return nil
}

func (f Flatten[T]) ExtraString(key string) (string, bool) {
	str, ok := f.Extra[key].(string)
	return str, ok
}

func (f *Flatten[T]) SetExtra(key string, value any) {
	if f.Extra == nil {
		f.Extra = map[string]any{}
	}
	f.Extra[key] = value
}

func (f *Flatten[T]) DeleteExtra(key string) {
	delete(f.Extra, key)
}

// StructToMap goes through JSON so the keys follow the json tags
func StructToMap(s any) (map[string]any, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "Could not marshal struct")
	}

	fields := map[string]any{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, errors.Wrap(err, "Could not unmarshal struct into a map")
	}

	return fields, nil
}

func MapToStruct[T any](m map[string]any) (T, error) {
	var t T
	encoded, err := json.Marshal(m)
	if err != nil {
		return t, errors.Wrap(err, "Could not marshal map")
	}

	if err := json.Unmarshal(encoded, &t); err != nil {
		return t, errors.Wrap(err, "Could not unmarshal json map to object")
	}

	return t, nil
}
