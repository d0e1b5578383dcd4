package babel

import (
	"context"
	"fmt"
)

// LazyString defers a translation until a request context is available,
// so translated values can be declared at package init and still render
// in the locale of whichever request finally reads them.
type LazyString struct {
	resolve func(ctx context.Context) string
}

func newLazy(fn func(ctx context.Context) string) *LazyString {
	return &LazyString{resolve: fn}
}

// Resolve materializes the string against the locale and active domain
// of ctx. Each call re-evaluates, so the same value yields different
// translations under different requests.
func (l *LazyString) Resolve(ctx context.Context) string {
	return l.resolve(ctx)
}

// String renders without request scope, which degrades to the identity
// translation. Prefer Resolve when a context is at hand.
func (l *LazyString) String() string {
	return l.resolve(context.Background())
}

// Bind couples the value to a request context so it can be handed to
// code that only knows fmt.Stringer, such as template data.
func (l *LazyString) Bind(ctx context.Context) fmt.Stringer {
	return boundLazy{ctx: ctx, lazy: l}
}

type boundLazy struct {
	ctx  context.Context
	lazy *LazyString
}

func (b boundLazy) String() string {
	return b.lazy.resolve(b.ctx)
}
