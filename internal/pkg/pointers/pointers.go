package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// OrNil unwraps p into an untyped value, nil when p is nil. Query drivers
// treat the result as a null parameter.
func OrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
