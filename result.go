package raspberrystats

import "context"

// Result pairs a metric value with the error that produced it. Exactly one
// of the two is meaningful: a nil Err means Value holds the reading, a
// non-nil Err means Value is the zero value. Checking Err alone is always
// sufficient.
type Result[T any] struct {
	Value T
	Err   error
}

// dispatch adapts a blocking query into the handler calling convention. The
// handler is invoked exactly once, from a separate goroutine, with the same
// outcome the blocking call would have returned.
func dispatch[T any](ctx context.Context, query func(context.Context) (T, error), handler func(Result[T])) {
	go func() {
		value, err := query(ctx)
		handler(Result[T]{Value: value, Err: err})
	}()
}
