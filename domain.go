package babel

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/babel/pkg/gettext"
)

// Domain is a translation namespace: it resolves, merges and caches the
// compiled catalogs for its configured domain name(s) and answers the
// gettext family of queries against the locale of the current request.
//
// Settings left unset on a Domain fall back to the Babel configuration
// attached to the request, so a bare NewDomain() is the default domain.
// The catalog cache lives as long as the Domain itself; the default
// domain is owned by the Babel instance and therefore caches composite
// catalogs for the whole process lifetime.
type Domain struct {
	names   []string
	dirs    []string
	plugins []PluginPackage
	loader  gettext.Loader

	mu    sync.RWMutex
	cache map[cacheKey]*gettext.Catalog
	group singleflight.Group
}

type cacheKey struct {
	locale string
	domain string
}

// DomainOption configures a Domain during construction.
type DomainOption func(*Domain)

// WithDomainName sets the domain name(s), semicolon-delimited for
// positional pairing with directories.
func WithDomainName(name string) DomainOption {
	return func(d *Domain) { d.names = splitList(name) }
}

// WithDomainDirectories sets the translation directories searched by this
// domain instead of the application-wide ones.
func WithDomainDirectories(dirs ...string) DomainOption {
	return func(d *Domain) { d.dirs = dirs }
}

// WithDomainPlugins sets the plugin packages consulted by this domain
// instead of the application-wide ones.
func WithDomainPlugins(plugins ...PluginPackage) DomainOption {
	return func(d *Domain) { d.plugins = plugins }
}

// WithDomainLoader replaces the catalog loader for this domain.
func WithDomainLoader(l gettext.Loader) DomainOption {
	return func(d *Domain) { d.loader = l }
}

// NewDomain creates a translation domain.
func NewDomain(opts ...DomainOption) *Domain {
	d := &Domain{cache: make(map[cacheKey]*gettext.Catalog)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// String identifies the domain in logs and debug output.
func (d *Domain) String() string {
	names := d.names
	if len(names) == 0 {
		names = []string{DefaultDomain}
	}
	return fmt.Sprintf("Domain(%s)", strings.Join(names, ";"))
}

// AsDefault makes this domain the active one for the current request, so
// the package-level gettext shortcuts route through it. It fails without
// a request scope.
func (d *Domain) AsDefault(ctx context.Context) error {
	sc := scopeFrom(ctx)
	if sc == nil {
		return ErrNoRequestScope
	}
	sc.mu.Lock()
	sc.domain = d
	sc.translations = nil
	sc.mu.Unlock()
	return nil
}

// domainConfig is the effective configuration after falling back to the
// request's Babel instance for anything unset on the Domain.
type domainConfig struct {
	names   []string
	dirs    []string
	plugins []PluginPackage
	loader  gettext.Loader
}

func (d *Domain) configFor(sc *scope) domainConfig {
	cfg := domainConfig{
		names:   d.names,
		dirs:    d.dirs,
		plugins: d.plugins,
		loader:  d.loader,
	}
	if len(cfg.names) == 0 {
		cfg.names = sc.babel.domainNames
	}
	if cfg.dirs == nil {
		cfg.dirs = sc.babel.directories
	}
	if cfg.plugins == nil {
		cfg.plugins = sc.babel.plugins
	}
	if cfg.loader == nil {
		cfg.loader = sc.babel.loader
	}
	return cfg
}

// Translations returns the composite catalog for the current locale and
// this domain. Outside a request scope it returns the null catalog, so
// every lookup degrades to identity. A cache hit performs no I/O; on a
// miss the core directories are loaded and merged in order (a missing
// catalog is an empty contribution, a malformed one aborts with an
// error), then plugin catalogs merge additively with failures logged and
// skipped. Concurrent first accesses for the same key are collapsed into
// a single load.
func (d *Domain) Translations(ctx context.Context) (*gettext.Catalog, error) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return &gettext.Catalog{}, nil
	}

	active := sc.activeDomain() == d
	if active {
		sc.mu.Lock()
		memo := sc.translations
		sc.mu.Unlock()
		if memo != nil {
			return memo, nil
		}
	}

	locale, _ := GetLocale(ctx)
	cfg := d.configFor(sc)
	key := cacheKey{locale: localeString(locale), domain: cfg.names[0]}

	d.mu.RLock()
	cached, ok := d.cache[key]
	d.mu.RUnlock()

	if !ok {
		v, err, _ := d.group.Do(key.locale+"\x00"+key.domain, func() (any, error) {
			return d.build(sc, cfg, key)
		})
		if err != nil {
			return nil, err
		}
		cached = v.(*gettext.Catalog)
	}

	if active {
		sc.mu.Lock()
		sc.translations = cached
		sc.mu.Unlock()
	}
	return cached, nil
}

// build loads and merges every contribution for a cache key, stores the
// composite and returns it.
func (d *Domain) build(sc *scope, cfg domainConfig, key cacheKey) (*gettext.Catalog, error) {
	composite := gettext.New()

	for i, dir := range cfg.dirs {
		// Domains pair positionally with directories when several are
		// configured.
		name := cfg.names[0]
		if len(cfg.names) > 1 && i < len(cfg.names) {
			name = cfg.names[i]
		}
		catalog, err := cfg.loader.Load(dir, key.locale, name)
		if errors.Is(err, gettext.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("babel: loading domain %s: %w", name, err)
		}
		composite.Merge(catalog)
	}

	for _, plugin := range cfg.plugins {
		catalog, err := gettext.LoadFS(plugin.FS, key.locale, key.domain)
		if errors.Is(err, gettext.ErrNotFound) {
			continue
		}
		if err != nil {
			sc.babel.logger.Warn("plugin catalog skipped",
				"plugin", plugin.Name,
				"locale", key.locale,
				"domain", key.domain,
				"error", err)
			continue
		}
		composite.Merge(catalog)
	}

	d.mu.Lock()
	d.cache[key] = composite
	d.mu.Unlock()
	return composite, nil
}

// catalog resolves the composite for lookups, degrading to the null
// catalog when resolution fails; the error is logged once per call site
// so translation queries stay infallible for callers.
func (d *Domain) catalog(ctx context.Context) *gettext.Catalog {
	c, err := d.Translations(ctx)
	if err != nil {
		if sc := scopeFrom(ctx); sc != nil {
			sc.babel.logger.Error("translation catalog unavailable", "domain", d.String(), "error", err)
		}
		return &gettext.Catalog{}
	}
	return c
}

// Gettext translates msgid for the current request locale and applies
// the optional interpolation variables.
//
//	d.Gettext(ctx, "Hello %(name)s!", babel.M{"name": "World"})
func (d *Domain) Gettext(ctx context.Context, msgid string, vars ...M) string {
	return interpolate(d.catalog(ctx).Gettext(msgid), mergeVars(vars))
}

// NGettext translates with plural selection on n, which is also injected
// into the variables as "num" unless already present. The catalog's own
// plural rule decides the form, so a locale with three plural forms picks
// among all three.
func (d *Domain) NGettext(ctx context.Context, singular, plural string, n int, vars ...M) string {
	return interpolate(d.catalog(ctx).NGettext(singular, plural, n), withNum(vars, n))
}

// PGettext is Gettext with a disambiguating message context.
func (d *Domain) PGettext(ctx context.Context, msgctx, msgid string, vars ...M) string {
	return interpolate(d.catalog(ctx).PGettext(msgctx, msgid), mergeVars(vars))
}

// NPGettext is NGettext with a disambiguating message context.
func (d *Domain) NPGettext(ctx context.Context, msgctx, singular, plural string, n int, vars ...M) string {
	return interpolate(d.catalog(ctx).NPGettext(msgctx, singular, plural, n), withNum(vars, n))
}

// LazyGettext captures a Gettext call for later, per-request evaluation.
func (d *Domain) LazyGettext(msgid string, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return d.Gettext(ctx, msgid, vars...)
	})
}

// LazyNGettext captures an NGettext call for later evaluation.
func (d *Domain) LazyNGettext(singular, plural string, n int, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return d.NGettext(ctx, singular, plural, n, vars...)
	})
}

// LazyPGettext captures a PGettext call for later evaluation.
func (d *Domain) LazyPGettext(msgctx, msgid string, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return d.PGettext(ctx, msgctx, msgid, vars...)
	})
}

// LazyNPGettext captures an NPGettext call for later evaluation.
func (d *Domain) LazyNPGettext(msgctx, singular, plural string, n int, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return d.NPGettext(ctx, msgctx, singular, plural, n, vars...)
	})
}

// Package-level shortcuts against the active domain of the request.
// Outside a request scope they degrade to identity translations.

// GetTranslations returns the composite catalog of the request's active
// domain.
func GetTranslations(ctx context.Context) (*gettext.Catalog, error) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return &gettext.Catalog{}, nil
	}
	return sc.activeDomain().Translations(ctx)
}

// Gettext translates msgid using the request's active domain.
func Gettext(ctx context.Context, msgid string, vars ...M) string {
	sc := scopeFrom(ctx)
	if sc == nil {
		return interpolate(msgid, mergeVars(vars))
	}
	return sc.activeDomain().Gettext(ctx, msgid, vars...)
}

// NGettext translates with plural selection using the active domain.
func NGettext(ctx context.Context, singular, plural string, n int, vars ...M) string {
	sc := scopeFrom(ctx)
	if sc == nil {
		return identityPlural(singular, plural, n, vars)
	}
	return sc.activeDomain().NGettext(ctx, singular, plural, n, vars...)
}

// PGettext translates a context-qualified msgid using the active domain.
func PGettext(ctx context.Context, msgctx, msgid string, vars ...M) string {
	sc := scopeFrom(ctx)
	if sc == nil {
		return interpolate(msgid, mergeVars(vars))
	}
	return sc.activeDomain().PGettext(ctx, msgctx, msgid, vars...)
}

// NPGettext is the context-qualified plural shortcut.
func NPGettext(ctx context.Context, msgctx, singular, plural string, n int, vars ...M) string {
	sc := scopeFrom(ctx)
	if sc == nil {
		return identityPlural(singular, plural, n, vars)
	}
	return sc.activeDomain().NPGettext(ctx, msgctx, singular, plural, n, vars...)
}

func identityPlural(singular, plural string, n int, vars []M) string {
	s := plural
	if n == 1 {
		s = singular
	}
	return interpolate(s, withNum(vars, n))
}

// withNum flattens the variadic maps and injects n as "num" unless the
// caller set it. The caller's maps are never written to.
func withNum(vars []M, n int) M {
	merged := make(M, 1)
	for _, m := range vars {
		maps.Copy(merged, m)
	}
	if _, ok := merged["num"]; !ok {
		merged["num"] = n
	}
	return merged
}

// LazyGettext captures a package-level Gettext call; the active domain
// and locale are looked up each time the value materializes, so a value
// declared at package init still resolves per-request.
func LazyGettext(msgid string, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return Gettext(ctx, msgid, vars...)
	})
}

// LazyNGettext is the lazy form of NGettext.
func LazyNGettext(singular, plural string, n int, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return NGettext(ctx, singular, plural, n, vars...)
	})
}

// LazyPGettext is the lazy form of PGettext.
func LazyPGettext(msgctx, msgid string, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return PGettext(ctx, msgctx, msgid, vars...)
	})
}

// LazyNPGettext is the lazy form of NPGettext.
func LazyNPGettext(msgctx, singular, plural string, n int, vars ...M) *LazyString {
	return newLazy(func(ctx context.Context) string {
		return NPGettext(ctx, msgctx, singular, plural, n, vars...)
	})
}
