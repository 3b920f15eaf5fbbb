package semreg

// Tracked wraps a value and remembers the original it was loaded with, so a
// later writer can tell fields the caller actually changed from fields that
// merely round-tripped. Setting a value equal to the original keeps Changed
// false.
//
// The zero value tracks the zero value of T.
type Tracked[T comparable] struct {
	old      T
	override T
	isSet    bool
}

// NewTracked returns a tracker whose original value is v.
func NewTracked[T comparable](v T) Tracked[T] {
	return Tracked[T]{old: v}
}

// Current returns the overriding value if one was set, the original
// otherwise.
func (t Tracked[T]) Current() T {
	if t.isSet {
		return t.override
	}
	return t.old
}

// Original returns the value the tracker was created with.
func (t Tracked[T]) Original() T {
	return t.old
}

// Set replaces the current value. The original is kept for comparison.
func (t *Tracked[T]) Set(v T) {
	t.override = v
	t.isSet = true
}

// Reset drops the overriding value, reverting Current to the original.
func (t *Tracked[T]) Reset() {
	var zero T
	t.override = zero
	t.isSet = false
}

// Changed reports whether an overriding value was set that differs from the
// original.
func (t Tracked[T]) Changed() bool {
	return t.isSet && t.override != t.old
}

// Eq compares the current values of two trackers.
func (t Tracked[T]) Eq(u Tracked[T]) bool {
	return t.Current() == u.Current()
}
