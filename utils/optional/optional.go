// Package optional provides a JSON field wrapper that tells an absent key apart
// from an explicit null, for partial updates.
package optional

import (
	"encoding/json"
	"reflect"
)

// Value holds a patch field. Set reports whether the key was present in the payload;
// a present key with a JSON null has Set true and a nil Ptr.
type Value[T any] struct {
	Set bool
	Ptr *T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Ptr: &v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if string(data) == "null" {
		v.Ptr = nil
		return nil
	}
	var inner T
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	v.Ptr = &inner
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.Ptr == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.Ptr)
}

// IsNull reports an explicit null.
func (v Value[T]) IsNull() bool {
	return v.Set && v.Ptr == nil
}

// Put records the field in a GORM update map under column when it was supplied.
// A null is stored as nil so the column is cleared.
func (v Value[T]) Put(changes map[string]interface{}, column string) {
	if !v.Set {
		return
	}
	if v.Ptr == nil {
		changes[column] = nil
		return
	}
	changes[column] = *v.Ptr
}

// Map is like Put but transforms a present value first.
func (v Value[T]) Map(changes map[string]interface{}, column string, fn func(T) T) {
	if v.Set && v.Ptr != nil {
		changes[column] = fn(*v.Ptr)
		return
	}
	v.Put(changes, column)
}

// ValidationValue exposes the contained value to go-playground/validator.
// Absent and null fields yield nil so "omitempty" skips them.
func (v Value[T]) ValidationValue() interface{} {
	if v.Ptr == nil {
		return nil
	}
	return *v.Ptr
}

// Validatable is implemented by every Value instantiation.
type Validatable interface {
	ValidationValue() interface{}
}

// Extract is a validator.CustomTypeFunc for Value fields.
func Extract(field reflect.Value) interface{} {
	if vv, ok := field.Interface().(Validatable); ok {
		return vv.ValidationValue()
	}
	return nil
}
