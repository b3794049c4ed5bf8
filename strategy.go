package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoValue is reported when a reduction finishes without delivering a value.
var ErrNoValue = errors.New("reduction completed without a value")

// Reduction is the single value delivered by a strategy's reducer.
type Reduction[F any] struct {
	Value F
	Err   error
}

// Reducer turns a value into its format asynchronously. It must deliver at
// most one Reduction on the returned channel; closing the channel without a
// value reports ErrNoValue. Reducers should stop when ctx is done.
type Reducer[V, F any] func(ctx context.Context, v V) <-chan Reduction[F]

// Strategy reduces values of type V to a Format of type F.
//
// Strategies are immutable values. New ones are derived with Precompose,
// TryPrecompose, MapFormat and WithExtension; the same input type can have
// many strategies (Lines, JSON, YAML, ...).
type Strategy[V, F any] struct {
	format    Format[F]
	extension *string
	reduce    Reducer[V, F]
}

// NewStrategy builds a strategy from a synchronous, side-effect free function.
// The function runs on its own goroutine so slow reductions can time out.
func NewStrategy[V, F any](format Format[F], fn func(V) (F, error)) Strategy[V, F] {
	return Strategy[V, F]{
		format: format,
		reduce: func(_ context.Context, v V) <-chan Reduction[F] {
			out := make(chan Reduction[F], 1)
			go func() {
				defer close(out)
				f, err := call(fn, v)
				out <- Reduction[F]{Value: f, Err: err}
			}()
			return out
		},
	}
}

// NewAsyncStrategy builds a strategy whose reducer completes on its own
// schedule, e.g. after a render callback fires.
func NewAsyncStrategy[V, F any](format Format[F], reduce Reducer[V, F]) Strategy[V, F] {
	return Strategy[V, F]{format: format, reduce: reduce}
}

// Format returns the strategy's format.
func (s Strategy[V, F]) Format() Format[F] {
	return s.format
}

// Extension returns the artifact extension: the override set with
// WithExtension, else the format's. It never depends on the input value.
func (s Strategy[V, F]) Extension() string {
	if s.extension != nil {
		return *s.extension
	}
	return s.format.Extension
}

// WithExtension returns a copy of s that names artifacts with ext.
// An empty ext produces extensionless artifacts.
func (s Strategy[V, F]) WithExtension(ext string) Strategy[V, F] {
	s.extension = &ext
	return s
}

// Precompose adapts s to a new input type by transforming inputs with f
// before s runs. The format and extension are unchanged.
func Precompose[N, V, F any](s Strategy[V, F], f func(N) V) Strategy[N, F] {
	return TryPrecompose(s, func(n N) (V, error) { return f(n), nil })
}

// TryPrecompose is Precompose for transformations that can fail, such as
// encoders. A failure is delivered as the reduction error.
func TryPrecompose[N, V, F any](s Strategy[V, F], f func(N) (V, error)) Strategy[N, F] {
	return Strategy[N, F]{
		format:    s.format,
		extension: s.extension,
		reduce: func(ctx context.Context, n N) <-chan Reduction[F] {
			out := make(chan Reduction[F], 1)
			go func() {
				defer close(out)
				v, err := call(f, n)
				if err != nil {
					out <- Reduction[F]{Err: err}
					return
				}
				if r, ok := await(ctx, s.reduce(ctx, v)); ok {
					out <- r
				}
			}()
			return out
		},
	}
}

// MapFormat converts the output of s into another format. The extension
// override of s is dropped; the result is named after format.
func MapFormat[V, F, G any](s Strategy[V, F], to func(F) G, format Format[G]) Strategy[V, G] {
	return Strategy[V, G]{
		format: format,
		reduce: func(ctx context.Context, v V) <-chan Reduction[G] {
			out := make(chan Reduction[G], 1)
			go func() {
				defer close(out)
				r, ok := await(ctx, s.reduce(ctx, v))
				if !ok {
					return
				}
				if r.Err != nil {
					out <- Reduction[G]{Err: r.Err}
					return
				}
				g, err := call(func(f F) (G, error) { return to(f), nil }, r.Value)
				out <- Reduction[G]{Value: g, Err: err}
			}()
			return out
		},
	}
}

// Apply reduces v with s and waits for the result or ctx.
func Apply[V, F any](ctx context.Context, s Strategy[V, F], v V) (F, error) {
	var zero F
	if s.reduce == nil {
		return zero, errors.New("strategy has no reducer")
	}
	ch := s.reduce(ctx, v)
	select {
	case r, ok := <-ch:
		if !ok {
			// Derived reducers close without a value when ctx ends first.
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			return zero, ErrNoValue
		}
		return r.Value, r.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// await receives one reduction, giving up when ctx is done.
func await[F any](ctx context.Context, ch <-chan Reduction[F]) (Reduction[F], bool) {
	select {
	case r, ok := <-ch:
		return r, ok
	case <-ctx.Done():
		return Reduction[F]{}, false
	}
}

// call runs fn and turns a panic into an error so one broken reducer only
// fails its own assertion.
func call[V, F any](fn func(V) (F, error), v V) (f F, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reducer panicked: %v", p)
		}
	}()
	return fn(v)
}
