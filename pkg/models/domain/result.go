package domain

// Result is the outcome of one isolated task: either a value or the error
// that prevented it. The zero value is neither and reports OK() == false.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the payload, or the zero value of T for a failed result.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrNotSettled
	}
	return r.err
}

// ErrorMessage returns the error text, or nil for a successful result.
func (r Result[T]) ErrorMessage() *string {
	if r.ok {
		return nil
	}
	msg := r.Err().Error()
	return &msg
}
