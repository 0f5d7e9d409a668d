package box

import "reflect"

// Component is an immutable renderable value. Any value can be a component;
// behaviors are added by implementing capability interfaces.
type Component any

// Equatable is implemented by components that define their own equality.
// Components that do not implement it are compared with reflect.DeepEqual.
type Equatable interface {
	Equal(other Component) bool
}

// Wrapper is implemented by components that decorate another component.
// Capability lookup continues into the wrapped component when the wrapper
// itself does not provide the capability.
type Wrapper interface {
	Unwrap() Component
}

// HeightCustomizing is the capability of reporting an intrinsic height for a
// given available width and inherited horizontal margins.
type HeightCustomizing interface {
	Height(width, inheritedMargins float64) float64
	EstimatedHeight(width, inheritedMargins float64) float64
}

// maxUnwrapDepth bounds wrapper chains so a cyclic Unwrap cannot hang lookup.
const maxUnwrapDepth = 32

// As returns the first implementation of capability T found on c or on the
// components it wraps. Absence is not an error.
func As[T any](c Component) (T, bool) {
	for depth := 0; c != nil && depth < maxUnwrapDepth; depth++ {
		if impl, ok := c.(T); ok {
			return impl, true
		}
		w, ok := c.(Wrapper)
		if !ok {
			break
		}
		c = w.Unwrap()
	}
	var zero T
	return zero, false
}

// RowAs looks up capability T on a row's component.
func RowAs[T any, R comparable](row Row[R]) (T, bool) {
	return As[T](row.Component)
}

// SlotAs looks up capability T on a section's header or footer.
func SlotAs[T any, S, R comparable](section Section[S, R], slot Slot) (T, bool) {
	return As[T](section.Slot(slot))
}

// Equal compares two components.
func Equal(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equatable); ok {
		return eq.Equal(b)
	}
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}
