// Copyright (c) 2026 MangaMania. All rights reserved.

// Package pointer provides small generic helpers for working with pointers,
// mainly for optional JSON fields and nullable database columns.
package pointer

// To returns a pointer to the given value.
func To[T any](value T) *T {
	return &value
}

// DerefOr returns the value pointed to, or fallback if the pointer is nil.
func DerefOr[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
