package babel

import (
	"context"
	"html/template"
	"time"
)

// TemplateFuncs exposes the translation and formatting helpers to
// html/template and text/template, bound to the given request context.
// Register the map per request so each render sees its own locale:
//
//	tmpl.Funcs(babel.TemplateFuncs(r.Context())).Execute(w, data)
func TemplateFuncs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"gettext": func(msgid string) string {
			return Gettext(ctx, msgid)
		},
		"ngettext": func(singular, plural string, n int) string {
			return NGettext(ctx, singular, plural, n)
		},
		"pgettext": func(msgctx, msgid string) string {
			return PGettext(ctx, msgctx, msgid)
		},
		"npgettext": func(msgctx, singular, plural string, n int) string {
			return NPGettext(ctx, msgctx, singular, plural, n)
		},
		"format_datetime": func(t time.Time, format string) string {
			return FormatDatetime(ctx, t, format)
		},
		"format_date": func(t time.Time, format string) string {
			return FormatDate(ctx, t, format)
		},
		"format_time": func(t time.Time, format string) string {
			return FormatTime(ctx, t, format)
		},
		"format_timedelta": func(d time.Duration, granularity string) string {
			return FormatTimedelta(ctx, d, granularity)
		},
		"format_number": func(n any) string {
			return FormatNumber(ctx, n)
		},
		"format_decimal": func(n any, digits int) string {
			return FormatDecimal(ctx, n, digits)
		},
		"format_currency": func(amount float64, code string) string {
			return FormatCurrency(ctx, amount, code)
		},
		"format_percent": func(n any) string {
			return FormatPercent(ctx, n)
		},
		"format_scientific": func(n any) string {
			return FormatScientific(ctx, n)
		},
	}
}
