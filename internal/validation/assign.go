package validation

// Assign stores value into dst when rule accepts it. A rejected value leaves
// dst untouched and is reported as *Error for field. An accepted value equal
// to the current one is not stored again.
func Assign[T any](field string, dst *T, value T, rule Rule[T], equal func(a, b T) bool) error {
	if rule != nil {
		if ok, msg := rule(value); !ok {
			return &Error{Field: field, Message: msg}
		}
	}
	if equal != nil && equal(*dst, value) {
		return nil
	}
	*dst = value
	return nil
}

// Equal is the equality used for comparable field types.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// EqualPtr compares the pointed-to values; two nil pointers are equal.
func EqualPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
