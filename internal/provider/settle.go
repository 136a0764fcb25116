package provider

// Result carries one provider call's outcome: a value or an error, never
// both meaningful at once. The fan-out settles every call independently and
// the aggregator consumes successes only, so a failing provider cannot abort
// its siblings.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail wraps a provider error.
func Fail[T any](err error) Result[T] {
	var zero T
	return Result[T]{Value: zero, Err: err}
}

// IsOK reports whether the call succeeded.
func (r Result[T]) IsOK() bool { return r.Err == nil }

// OrZero returns the value on success and the zero value otherwise.
func (r Result[T]) OrZero() T {
	if r.Err != nil {
		var zero T
		return zero
	}
	return r.Value
}
