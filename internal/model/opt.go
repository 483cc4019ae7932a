package model

// Opt is an explicitly optional patch field. The zero value means "not part
// of this patch" and is never serialized, so partial updates cannot clobber
// unrelated columns. Null marks "explicitly clear this column", which is
// serialized as a JSON null.
type Opt[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns an Opt carrying v.
func Set[T any](v T) Opt[T] { return Opt[T]{present: true, value: v} }

// Null returns an Opt that clears the column.
func Null[T any]() Opt[T] { return Opt[T]{present: true, null: true} }

// Present reports whether the field participates in the patch at all.
func (o Opt[T]) Present() bool { return o.present }

// IsNull reports whether the field explicitly clears the column.
func (o Opt[T]) IsNull() bool { return o.present && o.null }

// Get returns the carried value; ok is false when the field is absent or null.
func (o Opt[T]) Get() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}
