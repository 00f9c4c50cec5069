package helpers

// Ptr returns a pointer to the provided value, for optional request fields
// such as an expected layout version.
func Ptr[T any](val T) *T {
	return &val
}
