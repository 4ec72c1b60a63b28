// Package collection holds the generic slice helpers the cart and the shop
// client fold their line items with.
//
//	lines := collection.Map(items, func(i cart.Item) api.OrderLine { ... })
//	total := collection.Reduce(items, decimal.Zero, func(sum decimal.Decimal, i cart.Item) decimal.Decimal { ... })
package collection

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which keep is true. The result is
// never nil.
func Filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reject is the inverse of Filter.
func Reject[T any](s []T, drop func(T) bool) []T {
	return Filter(s, func(v T) bool { return !drop(v) })
}

// Reduce folds s into one value, starting with initial.
func Reduce[T, R any](s []T, initial R, fn func(carry R, item T) R) R {
	carry := initial
	for _, v := range s {
		carry = fn(carry, v)
	}
	return carry
}
