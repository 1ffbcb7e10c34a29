package family

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entity is implemented by records that carry a stable identifier.
type Entity interface {
	EntityID() string
}

// Ref references an entity either by bare identifier or by resolved value.
// The zero Ref references nothing.
type Ref[T Entity] struct {
	id    string
	value *T
}

// RefTo returns a reference holding only an identifier.
func RefTo[T Entity](id string) Ref[T] { return Ref[T]{id: id} }

// Resolved returns a reference holding a value. Its identifier is the value's.
func Resolved[T Entity](v T) Ref[T] { return Ref[T]{id: v.EntityID(), value: &v} }

// ID returns the referenced identifier regardless of which form is held.
func (r Ref[T]) ID() string {
	if r.value != nil {
		return (*r.value).EntityID()
	}
	return r.id
}

// IsZero reports whether the reference is empty.
func (r Ref[T]) IsZero() bool { return r.ID() == "" }

// Embedded returns the value carried by the reference, if any.
func (r Ref[T]) Embedded() (*T, bool) { return r.value, r.value != nil }

// Resolve looks the reference up in index, falling back to an embedded value.
// It reports false for dangling references.
func (r Ref[T]) Resolve(index map[string]*T) (*T, bool) {
	id := r.ID()
	if id == "" {
		return nil, false
	}
	if v, ok := index[id]; ok {
		return v, true
	}
	return r.Embedded()
}

// MarshalJSON always writes the identifier form.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID())
}

// UnmarshalJSON accepts a string identifier, a populated object, or null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode reference id: %w", err)
		}
		*r = RefTo[T](id)
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode reference value: %w", err)
	}
	*r = Resolved(v)
	return nil
}
