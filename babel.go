package babel

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/babel/pkg/gettext"
)

// Defaults applied when the corresponding option is not given.
const (
	DefaultLocale    = "en"
	DefaultTimezone  = "UTC"
	DefaultDomain    = "messages"
	DefaultDirectory = "translations"
)

// LocaleSelector picks the locale for the current request. Returning an
// empty string falls back to the configured default locale.
type LocaleSelector func(ctx context.Context) string

// TimezoneSelector picks the timezone for the current request. It may
// return a zone name string or a *time.Location; anything else (or an
// empty string) falls back to the configured default timezone.
type TimezoneSelector func(ctx context.Context) any

// PluginPackage is a translation contribution shipped by an extension
// package: a filesystem (usually an embed.FS) exposing compiled catalogs
// at translations/<locale>/LC_MESSAGES/<domain>.mo.
type PluginPackage struct {
	Name string
	FS   fs.FS
}

// Babel holds the process-wide localization configuration. It is created
// once at application setup, is immutable afterwards, and owns the
// default translation domain whose catalog cache is shared across all
// requests.
type Babel struct {
	defaultLocale   language.Tag
	defaultTZ       *time.Location
	domainNames     []string
	directories     []string
	rootPath        string
	plugins         []PluginPackage
	localeSelector  LocaleSelector
	tzSelector      TimezoneSelector
	dateFormats     map[string]string
	logger          *slog.Logger
	loader          gettext.Loader
	domainOnce      sync.Once
	defaultDomain   *Domain
}

// Option configures a Babel instance during construction.
type Option func(*config)

type config struct {
	locale      string
	timezone    string
	domain      string
	directories string
	rootPath    string
	plugins     []PluginPackage
	localeSel   LocaleSelector
	tzSel       TimezoneSelector
	dateFormats map[string]string
	logger      *slog.Logger
	loader      gettext.Loader
}

// New creates a Babel instance. All configuration happens here; the
// returned value is safe for concurrent use.
func New(opts ...Option) (*Babel, error) {
	cfg := &config{
		locale:      DefaultLocale,
		timezone:    DefaultTimezone,
		domain:      DefaultDomain,
		directories: DefaultDirectory,
		rootPath:    ".",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.locale == "" {
		return nil, ErrEmptyLocale
	}
	tag, err := ParseLocale(cfg.locale)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTZ, cfg.timezone)
	}

	names := splitList(cfg.domain)
	if len(names) == 0 {
		return nil, ErrEmptyDomain
	}

	b := &Babel{
		defaultLocale:  tag,
		defaultTZ:      loc,
		domainNames:    names,
		directories:    resolveDirectories(splitList(cfg.directories), cfg.rootPath),
		rootPath:       cfg.rootPath,
		plugins:        cfg.plugins,
		localeSelector: cfg.localeSel,
		tzSelector:     cfg.tzSel,
		dateFormats:    defaultDateFormats(),
		logger:         cfg.logger,
		loader:         cfg.loader,
	}
	for k, v := range cfg.dateFormats {
		b.dateFormats[k] = v
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.loader == nil {
		b.loader = gettext.FileLoader{}
	}
	return b, nil
}

// WithDefaultLocale sets the fallback locale identifier ("en", "pt_BR").
func WithDefaultLocale(locale string) Option {
	return func(c *config) { c.locale = locale }
}

// WithDefaultTimezone sets the fallback IANA timezone name.
func WithDefaultTimezone(tz string) Option {
	return func(c *config) { c.timezone = tz }
}

// WithDomain sets the gettext domain name. A semicolon-delimited list
// pairs each domain positionally with the translation directory at the
// same index.
func WithDomain(domain string) Option {
	return func(c *config) { c.domain = domain }
}

// WithTranslationDirectories sets the semicolon-delimited list of catalog
// directories. Absolute paths pass through; relative paths are anchored
// to the root path.
func WithTranslationDirectories(dirs string) Option {
	return func(c *config) { c.directories = dirs }
}

// WithRootPath sets the anchor for relative translation directories.
func WithRootPath(root string) Option {
	return func(c *config) { c.rootPath = root }
}

// WithPluginPackage registers a plugin-contributed catalog source.
// Plugins merge after the core directories, in registration order.
func WithPluginPackage(name string, fsys fs.FS) Option {
	return func(c *config) {
		c.plugins = append(c.plugins, PluginPackage{Name: name, FS: fsys})
	}
}

// WithLocaleSelector sets the per-request locale selection callback.
func WithLocaleSelector(sel LocaleSelector) Option {
	return func(c *config) { c.localeSel = sel }
}

// WithTimezoneSelector sets the per-request timezone selection callback.
func WithTimezoneSelector(sel TimezoneSelector) Option {
	return func(c *config) { c.tzSel = sel }
}

// WithDateFormats overrides entries of the default date-format table.
// Keys are "time", "date", "datetime" (default width per kind) and
// "kind.width" slots such as "datetime.medium" (explicit pattern for that
// width; empty keeps the locale default).
func WithDateFormats(formats map[string]string) Option {
	return func(c *config) {
		if c.dateFormats == nil {
			c.dateFormats = make(map[string]string)
		}
		for k, v := range formats {
			c.dateFormats[k] = v
		}
	}
}

// WithLogger sets the logger used for plugin catalog load failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLoader replaces the catalog loader. Mainly a seam for tests that
// count catalog reads.
func WithLoader(l gettext.Loader) Option {
	return func(c *config) { c.loader = l }
}

// DefaultLocale returns the configured fallback locale.
func (b *Babel) DefaultLocale() language.Tag { return b.defaultLocale }

// DefaultTimezone returns the configured fallback timezone.
func (b *Babel) DefaultTimezone() *time.Location { return b.defaultTZ }

// TranslationDirectories returns the resolved catalog directories.
func (b *Babel) TranslationDirectories() []string {
	return slices.Clone(b.directories)
}

// Domain returns the default translation domain. It is built once and
// shared, so its catalog cache persists for the process lifetime.
func (b *Babel) Domain() *Domain {
	b.domainOnce.Do(func() {
		b.defaultDomain = NewDomain()
	})
	return b.defaultDomain
}

// ListTranslations enumerates the locales that have at least one compiled
// catalog in any configured directory. The default locale is always
// included, even when no catalog exists for it. The default comes first,
// the rest are sorted.
func (b *Babel) ListTranslations() []language.Tag {
	seen := map[string]bool{localeString(b.defaultLocale): true}
	var rest []language.Tag

	for _, dir := range b.directories {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || seen[e.Name()] {
				continue
			}
			lcDir := filepath.Join(dir, e.Name(), "LC_MESSAGES")
			files, err := os.ReadDir(lcDir)
			if err != nil {
				continue
			}
			hasMO := slices.ContainsFunc(files, func(f os.DirEntry) bool {
				return !f.IsDir() && strings.HasSuffix(f.Name(), ".mo")
			})
			if !hasMO {
				continue
			}
			tag, err := ParseLocale(e.Name())
			if err != nil {
				continue
			}
			seen[e.Name()] = true
			rest = append(rest, tag)
		}
	}

	slices.SortFunc(rest, func(a, c language.Tag) int {
		return strings.Compare(a.String(), c.String())
	})
	return append([]language.Tag{b.defaultLocale}, rest...)
}

// ParseLocale parses a locale identifier in either POSIX ("pt_BR") or
// BCP 47 ("pt-BR") form.
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Tag{}, fmt.Errorf("%w: %q", ErrInvalidLocale, s)
	}
	return tag, nil
}

// localeString renders a tag in the POSIX form used for catalog paths and
// cache keys ("pt_BR").
func localeString(tag language.Tag) string {
	return strings.ReplaceAll(tag.String(), "-", "_")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func resolveDirectories(dirs []string, root string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
		} else {
			out = append(out, filepath.Join(root, d))
		}
	}
	return out
}

// defaultDateFormats mirrors the conventional table: medium width for
// every kind, no explicit per-width patterns.
func defaultDateFormats() map[string]string {
	m := map[string]string{
		"time":     "medium",
		"date":     "medium",
		"datetime": "medium",
	}
	for _, kind := range []string{"time", "date", "datetime"} {
		for _, width := range []string{"short", "medium", "long", "full"} {
			m[kind+"."+width] = ""
		}
	}
	return m
}
