package babel

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/babel/pkg/gettext"
)

type scopeKey struct{}

// scope is the per-request memoization state. One scope lives exactly as
// long as its request context; concurrent requests never share one.
// The mutex only guards against handler-internal concurrency (a handler
// spawning goroutines that translate).
type scope struct {
	babel *Babel

	mu           sync.Mutex
	locale       *language.Tag
	forced       *language.Tag
	tzinfo       *time.Location
	translations *gettext.Catalog
	domain       *Domain
}

// NewContext attaches a fresh request scope for b to ctx. Locale and
// timezone resolution, translation lookups and the formatting facade all
// read their request state from this scope.
func NewContext(ctx context.Context, b *Babel) context.Context {
	return context.WithValue(ctx, scopeKey{}, &scope{babel: b})
}

func scopeFrom(ctx context.Context) *scope {
	if ctx == nil {
		return nil
	}
	sc, _ := ctx.Value(scopeKey{}).(*scope)
	return sc
}

// FromContext reports the Babel instance attached to ctx, if any.
func FromContext(ctx context.Context) (*Babel, bool) {
	if sc := scopeFrom(ctx); sc != nil {
		return sc.babel, true
	}
	return nil, false
}

// Middleware installs a request scope on every request. Mount it once at
// the top of the router:
//
//	r := chi.NewRouter()
//	r.Use(babel.Middleware(b))
func Middleware(b *Babel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), b)))
		})
	}
}

// activeDomain returns the domain set via AsDefault for this request, or
// the process-wide default domain.
func (sc *scope) activeDomain() *Domain {
	sc.mu.Lock()
	d := sc.domain
	sc.mu.Unlock()
	if d != nil {
		return d
	}
	return sc.babel.Domain()
}
