package babel

import (
	"context"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Builtin layouts per kind and width. A width name in the date formats
// table resolves here unless an application override shadows it.
var builtinLayouts = map[string]map[string]string{
	"datetime": {
		"short":  "1/2/06, 3:04 PM",
		"medium": "Jan 2, 2006, 3:04:05 PM",
		"long":   "January 2, 2006, 3:04:05 PM MST",
		"full":   "Monday, January 2, 2006, 3:04:05 PM MST",
	},
	"date": {
		"short":  "1/2/06",
		"medium": "Jan 2, 2006",
		"long":   "January 2, 2006",
		"full":   "Monday, January 2, 2006",
	},
	"time": {
		"short":  "3:04 PM",
		"medium": "3:04:05 PM",
		"long":   "3:04:05 PM MST",
		"full":   "3:04:05 PM MST",
	},
}

func isWidth(s string) bool {
	switch s {
	case "short", "medium", "long", "full":
		return true
	}
	return false
}

// selectLayout resolves the effective Go time layout for a kind
// ("datetime", "date", "time") and a requested format. An empty format
// falls back to the application default for the kind; a width name then
// consults the per-width override slot before the builtin table; any
// other string is used verbatim as a custom layout.
func (b *Babel) selectLayout(kind, format string) string {
	if format == "" {
		format = b.dateFormats[kind]
		if format == "" {
			format = "medium"
		}
	}
	if isWidth(format) {
		if custom := b.dateFormats[kind+"."+format]; custom != "" {
			return custom
		}
		return builtinLayouts[kind][format]
	}
	return format
}

// fallbackLayout resolves a layout without application configuration.
func fallbackLayout(kind, format string) string {
	if format == "" {
		format = "medium"
	}
	if isWidth(format) {
		return builtinLayouts[kind][format]
	}
	return format
}

func babelFrom(ctx context.Context) *Babel {
	if sc := scopeFrom(ctx); sc != nil {
		return sc.babel
	}
	return nil
}

// ToUserTimezone rebases t into the timezone of the current request.
// Outside a request scope t is returned unchanged.
func ToUserTimezone(ctx context.Context, t time.Time) time.Time {
	tz, ok := GetTimezone(ctx)
	if !ok {
		return t
	}
	return t.In(tz)
}

// ToUTC converts t to UTC. A value still carrying the process-local
// zone is first reinterpreted as wall-clock time in the request
// timezone.
func ToUTC(ctx context.Context, t time.Time) time.Time {
	if t.Location() == time.Local {
		if tz, ok := GetTimezone(ctx); ok {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), tz)
		}
	}
	return t.UTC()
}

// FormatDatetime renders t rebased into the request timezone. The format
// is a width name ("short", "medium", "long", "full"), a custom Go
// layout, or empty for the application default.
func FormatDatetime(ctx context.Context, t time.Time, format string) string {
	b := babelFrom(ctx)
	if b == nil {
		return t.Format(fallbackLayout("datetime", format))
	}
	return ToUserTimezone(ctx, t).Format(b.selectLayout("datetime", format))
}

// FormatDate renders the date portion of t. No timezone rebasing is
// applied; a date is treated as calendar data, not an instant.
func FormatDate(ctx context.Context, t time.Time, format string) string {
	b := babelFrom(ctx)
	if b == nil {
		return t.Format(fallbackLayout("date", format))
	}
	return t.Format(b.selectLayout("date", format))
}

// FormatTime renders the time portion of t rebased into the request
// timezone.
func FormatTime(ctx context.Context, t time.Time, format string) string {
	b := babelFrom(ctx)
	if b == nil {
		return t.Format(fallbackLayout("time", format))
	}
	return ToUserTimezone(ctx, t).Format(b.selectLayout("time", format))
}

type timedeltaUnit struct {
	name     string
	seconds  int64
	singular string
	plural   string
}

var timedeltaUnits = []timedeltaUnit{
	{"year", 31536000, "%(num)d year", "%(num)d years"},
	{"month", 2592000, "%(num)d month", "%(num)d months"},
	{"week", 604800, "%(num)d week", "%(num)d weeks"},
	{"day", 86400, "%(num)d day", "%(num)d days"},
	{"hour", 3600, "%(num)d hour", "%(num)d hours"},
	{"minute", 60, "%(num)d minute", "%(num)d minutes"},
	{"second", 1, "%(num)d second", "%(num)d seconds"},
}

// FormatTimedelta renders a duration as its largest whole unit, with the
// unit name translated through the request's active domain so catalogs
// can localize it. Granularity names the smallest unit to report
// ("minute", "hour", ...); a duration below it renders as one of that
// unit. Empty granularity means seconds.
func FormatTimedelta(ctx context.Context, d time.Duration, granularity string) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = -secs
	}
	for _, unit := range timedeltaUnits {
		n := secs / unit.seconds
		if unit.name == granularity {
			if n < 1 {
				n = 1
			}
			return NGettext(ctx, unit.singular, unit.plural, int(n))
		}
		if n >= 1 {
			return NGettext(ctx, unit.singular, unit.plural, int(n))
		}
	}
	return NGettext(ctx, "%(num)d second", "%(num)d seconds", 0)
}

// printer builds a message printer for the request locale; outside a
// request scope it falls back to English.
func printer(ctx context.Context) *message.Printer {
	locale, ok := GetLocale(ctx)
	if !ok {
		if b := babelFrom(ctx); b != nil {
			locale = b.defaultLocale
		}
	}
	return message.NewPrinter(locale)
}

// FormatNumber renders n with the digit grouping and decimal separator
// of the request locale.
func FormatNumber(ctx context.Context, n any) string {
	return printer(ctx).Sprint(number.Decimal(n))
}

// FormatDecimal renders n with exactly the given number of fraction
// digits in the request locale.
func FormatDecimal(ctx context.Context, n any, digits int) string {
	return printer(ctx).Sprint(number.Decimal(n, number.Scale(digits)))
}

// FormatCurrency renders an amount in the given ISO 4217 currency for
// the request locale. An unknown currency code renders the bare number.
func FormatCurrency(ctx context.Context, amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		if b := babelFrom(ctx); b != nil {
			b.logger.Warn("unknown currency code", "code", code)
		}
		return FormatDecimal(ctx, amount, 2)
	}
	return printer(ctx).Sprint(currency.Symbol(unit.Amount(amount)))
}

// FormatPercent renders a ratio as a percentage in the request locale,
// so 0.34 becomes "34%".
func FormatPercent(ctx context.Context, n any) string {
	return printer(ctx).Sprint(number.Percent(n))
}

// FormatScientific renders n in scientific notation for the request
// locale.
func FormatScientific(ctx context.Context, n any) string {
	return printer(ctx).Sprint(number.Scientific(n))
}
