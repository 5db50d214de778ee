package models

import "encoding/json"

// Field is a nullable JSON value that remembers whether its key was present.
// An absent key leaves Set false; an explicit null sets it with a nil Value.
type Field[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a present field holding v.
func SetTo[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a present field that clears the value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Apply returns the updated value when the field is present and current otherwise.
func (f Field[T]) Apply(current *T) *T {
	if !f.Set {
		return current
	}
	return f.Value
}
