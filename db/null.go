package db

// Null wraps a scalar kind with explicit presence. Collecting a NULL column
// (or collecting from an empty result set) as Null[T] yields Valid == false;
// any other column value decodes into Value with Valid == true. Binding a
// Null with Valid == false binds engine NULL.
type Null[T Scalar] struct {
	Value T
	Valid bool
}

// NullOf returns a present Null wrapping v.
func NullOf[T Scalar](v T) Null[T] {
	return Null[T]{Value: v, Valid: true}
}
