package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/babel"
)

// matcher narrows Accept-Language to the locales the app ships.
var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
	language.German,
})

type requestKey struct{}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	b, err := babel.New(
		babel.WithDefaultLocale("en"),
		babel.WithTranslationDirectories(getEnv("TRANSLATIONS_DIR", "translations")),
		babel.WithLogger(log),
		babel.WithLocaleSelector(selectLocale),
		babel.WithTimezoneSelector(selectTimezone),
	)
	if err != nil {
		log.Error("babel setup failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withRequest)
	r.Use(babel.Middleware(b))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fmt.Fprintln(w, babel.Gettext(ctx, "Hello World!"))
		fmt.Fprintln(w, babel.FormatDatetime(ctx, time.Now(), "medium"))
	})

	r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, n := range []int{0, 1, 5} {
			fmt.Fprintln(w, babel.NGettext(ctx,
				"%(num)d item in your cart",
				"%(num)d items in your cart", n))
		}
		fmt.Fprintln(w, babel.FormatCurrency(ctx, 1299.99, "EUR"))
	})

	r.Get("/locales", func(w http.ResponseWriter, r *http.Request) {
		for _, tag := range b.ListTranslations() {
			fmt.Fprintln(w, tag.String())
		}
	})

	addr := getEnv("ADDRESS", ":8080")
	log.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// withRequest stashes the request so the babel selectors, which only see
// a context, can reach its headers.
func withRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestKey{}, r)))
	})
}

func selectLocale(ctx context.Context) string {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	if !ok {
		return ""
	}
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	tag, _, _ := matcher.Match(tags...)
	return tag.String()
}

func selectTimezone(ctx context.Context) any {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	if !ok {
		return nil
	}
	if c, err := r.Cookie("tz"); err == nil {
		return c.Value
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
