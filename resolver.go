package babel

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

// GetLocale returns the locale for the current request. On first access
// it consults the configured locale selector (falling back to the default
// locale when the selector is unset, returns an empty string, or returns
// something unparsable) and memoizes the result for the rest of the
// request. Outside a request scope it reports ok=false; callers must then
// treat translations as identity.
func GetLocale(ctx context.Context) (language.Tag, bool) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return language.Tag{}, false
	}

	sc.mu.Lock()
	if sc.locale != nil {
		tag := *sc.locale
		sc.mu.Unlock()
		return tag, true
	}
	sc.mu.Unlock()

	// The selector runs outside the lock: it is application code and may
	// itself call back into this package. A duplicate resolution between
	// two racing goroutines of one request is harmless.
	tag := sc.babel.defaultLocale
	if sel := sc.babel.localeSelector; sel != nil {
		if s := sel(ctx); s != "" {
			if parsed, err := ParseLocale(s); err == nil {
				tag = parsed
			}
		}
	}

	sc.mu.Lock()
	if sc.locale == nil {
		sc.locale = &tag
	}
	tag = *sc.locale
	sc.mu.Unlock()
	return tag, true
}

// GetTimezone returns the timezone for the current request, memoized the
// same way as GetLocale. The timezone selector may return a zone name or
// a *time.Location. Outside a request scope it reports ok=false.
func GetTimezone(ctx context.Context) (*time.Location, bool) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return nil, false
	}

	sc.mu.Lock()
	if sc.tzinfo != nil {
		loc := sc.tzinfo
		sc.mu.Unlock()
		return loc, true
	}
	sc.mu.Unlock()

	loc := sc.babel.defaultTZ
	if sel := sc.babel.tzSelector; sel != nil {
		switch v := sel(ctx).(type) {
		case string:
			if v != "" {
				if parsed, err := time.LoadLocation(v); err == nil {
					loc = parsed
				}
			}
		case *time.Location:
			if v != nil {
				loc = v
			}
		}
	}

	sc.mu.Lock()
	if sc.tzinfo == nil {
		sc.tzinfo = loc
	}
	loc = sc.tzinfo
	sc.mu.Unlock()
	return loc, true
}

// Refresh drops the memoized locale, timezone and translations so the
// next access re-resolves them. Useful after the user changes their
// language settings mid-request. When a forced locale is active it is
// re-applied immediately instead of falling through to the selector.
func Refresh(ctx context.Context) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return
	}
	sc.mu.Lock()
	sc.locale = nil
	sc.tzinfo = nil
	sc.translations = nil
	if sc.forced != nil {
		forced := *sc.forced
		sc.locale = &forced
	}
	sc.mu.Unlock()
}

// ForceLocale temporarily overrides the request locale. The returned
// function restores the previous state and is meant for defer, so the
// override cannot leak past the block even on panic:
//
//	restore := babel.ForceLocale(ctx, "en_US")
//	defer restore()
//	sendEmail(babel.Gettext(ctx, "Hello!"))
//
// Outside a request scope, or for an unparsable locale, it is a no-op.
func ForceLocale(ctx context.Context, locale string) (restore func()) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return func() {}
	}
	tag, err := ParseLocale(locale)
	if err != nil {
		sc.babel.logger.Warn("force_locale ignored", "locale", locale, "error", err)
		return func() {}
	}

	sc.mu.Lock()
	prevLocale := sc.locale
	prevForced := sc.forced
	prevTranslations := sc.translations
	sc.locale = &tag
	sc.forced = &tag
	sc.translations = nil
	sc.mu.Unlock()

	return func() {
		sc.mu.Lock()
		sc.locale = prevLocale
		sc.forced = prevForced
		sc.translations = prevTranslations
		sc.mu.Unlock()
	}
}
