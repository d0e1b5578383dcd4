// Package babel provides request-scoped internationalization for HTTP
// services: locale and timezone resolution per request, gettext catalog
// loading with merging and caching, and locale-aware formatting of
// dates, numbers and currencies.
//
// An application builds one Babel instance at startup, attaches it to
// request contexts with Middleware, and translates through the
// package-level gettext functions or through explicit Domain values:
//
//	b, err := babel.New(
//		babel.WithDefaultLocale("en"),
//		babel.WithTranslationDirectories("translations"),
//		babel.WithLocaleSelector(func(ctx context.Context) string {
//			return localeFromSession(ctx)
//		}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Use(babel.Middleware(b))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		fmt.Fprint(w, babel.Gettext(r.Context(), "Hello World!"))
//	})
//
// Locale and timezone are resolved once per request through the
// configured selector callbacks and memoized on the context. Catalogs
// are loaded lazily, merged across the configured directories and
// plugin packages, and cached per locale and domain for the lifetime of
// the owning Domain.
//
// All translation functions degrade gracefully: outside a request scope
// or without a matching catalog they return the message id itself, with
// interpolation still applied.
package babel
