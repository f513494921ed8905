// Package utils holds small generic helpers shared by the token wire types
// and ID-token claim normalization.
package utils

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
