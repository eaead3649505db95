// Package validation holds the field rules used by guarded entities and
// catalog records.
//
// A rule is a pure function: it never panics, never mutates its input and
// returns the same verdict for the same value. A rejected value comes with a
// human-readable reason; an accepted one with an empty string.
package validation

// Rule checks a single value.
type Rule[T any] func(value T) (accepted bool, message string)

const (
	MsgStringEmpty    = "The value cannot be null, or empty"
	MsgNumberNegative = "The number cannot be lower than 0"
	MsgValueNegative  = "The value cannot be lower than 0"
)

// StringNotEmpty rejects the empty string. Whitespace is accepted.
func StringNotEmpty(s string) (bool, string) {
	if s == "" {
		return false, MsgStringEmpty
	}
	return true, ""
}

// IntNotNegative rejects counts below zero.
func IntNotNegative(n int32) (bool, string) {
	if n < 0 {
		return false, MsgNumberNegative
	}
	return true, ""
}

// UlongNotNegative accepts every unsigned value. It exists so unsigned fields
// go through the same guarded assignment path as every other checked field.
func UlongNotNegative(uint64) (bool, string) {
	return true, ""
}

// NullableDoubleNotNegative accepts nil and rejects values below zero.
// NaN is not below zero and is accepted.
func NullableDoubleNotNegative(n *float64) (bool, string) {
	if n != nil && *n < 0 {
		return false, MsgValueNegative
	}
	return true, ""
}
