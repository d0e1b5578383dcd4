package babel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/babel"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		b, err := babel.New()
		require.NoError(t, err)
		assert.Equal(t, language.English, b.DefaultLocale())
		assert.Equal(t, "UTC", b.DefaultTimezone().String())
	})

	t.Run("posix locale", func(t *testing.T) {
		t.Parallel()

		b, err := babel.New(babel.WithDefaultLocale("pt_BR"))
		require.NoError(t, err)
		assert.Equal(t, language.BrazilianPortuguese, b.DefaultLocale())
	})

	t.Run("empty locale", func(t *testing.T) {
		t.Parallel()

		_, err := babel.New(babel.WithDefaultLocale(""))
		require.ErrorIs(t, err, babel.ErrEmptyLocale)
	})

	t.Run("invalid locale", func(t *testing.T) {
		t.Parallel()

		_, err := babel.New(babel.WithDefaultLocale("no such locale"))
		require.ErrorIs(t, err, babel.ErrInvalidLocale)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		t.Parallel()

		_, err := babel.New(babel.WithDefaultTimezone("Mars/Olympus_Mons"))
		require.ErrorIs(t, err, babel.ErrInvalidTZ)
	})

	t.Run("empty domain", func(t *testing.T) {
		t.Parallel()

		_, err := babel.New(babel.WithDomain(" ; "))
		require.ErrorIs(t, err, babel.ErrEmptyDomain)
	})

	t.Run("relative directories anchored to root path", func(t *testing.T) {
		t.Parallel()

		b, err := babel.New(
			babel.WithRootPath("/srv/app"),
			babel.WithTranslationDirectories("translations;extra"),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join("/srv/app", "translations"),
			filepath.Join("/srv/app", "extra"),
		}, b.TranslationDirectories())
	})

	t.Run("absolute directory passes through", func(t *testing.T) {
		t.Parallel()

		b, err := babel.New(
			babel.WithRootPath("/srv/app"),
			babel.WithTranslationDirectories("/opt/shared/translations"),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"/opt/shared/translations"}, b.TranslationDirectories())
	})
}

func TestParseLocale(t *testing.T) {
	t.Parallel()

	tag, err := babel.ParseLocale("de_AT")
	require.NoError(t, err)
	assert.Equal(t, "de-AT", tag.String())

	tag, err = babel.ParseLocale("fr-CA")
	require.NoError(t, err)
	assert.Equal(t, "fr-CA", tag.String())

	_, err = babel.ParseLocale("!!!")
	require.ErrorIs(t, err, babel.ErrInvalidLocale)
}

func TestListTranslations(t *testing.T) {
	t.Parallel()

	t.Run("scans directories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeCatalog(t, dir, "fr", "messages", frenchHeader())
		writeCatalog(t, dir, "de", "messages", headerEntry("Language: de"))

		b, err := babel.New(babel.WithTranslationDirectories(dir))
		require.NoError(t, err)

		tags := b.ListTranslations()
		require.Len(t, tags, 3)
		assert.Equal(t, language.English, tags[0])
		assert.Equal(t, language.German, tags[1])
		assert.Equal(t, language.French, tags[2])
	})

	t.Run("default always listed first", func(t *testing.T) {
		t.Parallel()

		b, err := babel.New(
			babel.WithDefaultLocale("nl"),
			babel.WithTranslationDirectories(t.TempDir()),
		)
		require.NoError(t, err)

		tags := b.ListTranslations()
		require.Len(t, tags, 1)
		assert.Equal(t, language.Dutch, tags[0])
	})

	t.Run("locale dir without catalogs ignored", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeCatalog(t, dir, "fr", "messages", frenchHeader())
		require.NoError(t, mkdirLC(dir, "de"))

		b, err := babel.New(babel.WithTranslationDirectories(dir))
		require.NoError(t, err)

		tags := b.ListTranslations()
		require.Len(t, tags, 2)
		assert.Equal(t, language.French, tags[1])
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	b, err := babel.New()
	require.NoError(t, err)

	got, ok := babel.FromContext(babel.NewContext(context.Background(), b))
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = babel.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, err := babel.New()
	require.NoError(t, err)

	var seen bool
	handler := babel.Middleware(b)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := babel.FromContext(r.Context())
		require.True(t, ok)
		assert.Same(t, b, got)
		seen = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, seen)
}
