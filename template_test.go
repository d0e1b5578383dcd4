package babel_test

import (
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/babel"
)

func TestTemplateFuncs(t *testing.T) {
	t.Parallel()

	_, ctx := newFrenchApp(t)

	const page = `{{gettext "Hello World!"}} / {{ngettext "%(num)d apple" "%(num)d apples" .Count}} / {{pgettext "month" "May"}} / {{format_date .When "2006-01-02"}}`

	tmpl, err := template.New("page").Funcs(babel.TemplateFuncs(ctx)).Parse(page)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, map[string]any{"Count": 3, "When": refTime}))
	assert.Equal(t, "Bonjour le monde ! / 3 pommes / mai / 2024-03-15", out.String())
}

func TestTemplateFuncsFormatting(t *testing.T) {
	t.Parallel()

	ctx := newFormatApp(t, babel.WithDefaultLocale("en"))

	const page = `{{format_timedelta .Age ""}} / {{format_decimal 1234.5 2}} / {{format_percent 0.34}} / {{format_scientific 123456}}`

	tmpl, err := template.New("page").Funcs(babel.TemplateFuncs(ctx)).Parse(page)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, map[string]any{"Age": 3 * time.Hour}))
	assert.Contains(t, out.String(), "3 hours / 1,234.50 / 34% / ")
}
