package gettext

import "maps"

// msgctxt and msgid are joined with EOT in catalog keys, mirroring the
// encoding used inside compiled .mo files.
const eot = "\x04"

// PluralFunc maps a count to a plural-form index.
type PluralFunc func(n int) int

// Catalog is a set of translated messages for one locale and domain.
// The zero value is the null catalog: every lookup falls back to the
// source string, which keeps translation misses invisible to users.
//
// A Catalog built by merging several constituents unions their entries
// with later constituents winning on key collisions. The plural-form
// selection function always comes from the last merged constituent that
// defines one, even when its string entries were overridden.
type Catalog struct {
	messages map[string]string
	plurals  map[string][]string
	plural   PluralFunc
	nplurals int
	headers  map[string]string
}

// New returns an empty catalog ready to receive merged constituents.
func New() *Catalog {
	return &Catalog{
		messages: make(map[string]string),
		plurals:  make(map[string][]string),
		headers:  make(map[string]string),
	}
}

func key(msgctxt, msgid string) string {
	if msgctxt == "" {
		return msgid
	}
	return msgctxt + eot + msgid
}

// Gettext returns the translation for msgid, or msgid itself when the
// catalog has no entry for it.
func (c *Catalog) Gettext(msgid string) string {
	return c.PGettext("", msgid)
}

// PGettext returns the translation for msgid qualified by msgctxt.
func (c *Catalog) PGettext(msgctxt, msgid string) string {
	if c == nil {
		return msgid
	}
	if tr, ok := c.messages[key(msgctxt, msgid)]; ok && tr != "" {
		return tr
	}
	return msgid
}

// NGettext returns the plural form of the translation selected for n.
// Without a matching entry it falls back to the source strings using the
// Germanic singular/plural split, which matches the source language of
// gettext msgids.
func (c *Catalog) NGettext(singular, plural string, n int) string {
	return c.NPGettext("", singular, plural, n)
}

// NPGettext is NGettext qualified by msgctxt.
func (c *Catalog) NPGettext(msgctxt, singular, plural string, n int) string {
	if c != nil {
		if forms, ok := c.plurals[key(msgctxt, singular)]; ok {
			idx := c.pluralIndex(n)
			if idx < len(forms) && forms[idx] != "" {
				return forms[idx]
			}
		}
	}
	if n == 1 {
		return singular
	}
	return plural
}

func (c *Catalog) pluralIndex(n int) int {
	if c.plural == nil {
		if n == 1 {
			return 0
		}
		return 1
	}
	idx := c.plural(n)
	if idx < 0 {
		return 0
	}
	if c.nplurals > 0 && idx >= c.nplurals {
		return c.nplurals - 1
	}
	return idx
}

// Plural reports the configured plural selection function, or nil when no
// merged constituent defined one.
func (c *Catalog) Plural() PluralFunc {
	if c == nil {
		return nil
	}
	return c.plural
}

// Language returns the Language header of the catalog, if present.
func (c *Catalog) Language() string {
	return c.Header("Language")
}

// Header returns a header value from the catalog metadata entry.
func (c *Catalog) Header(name string) string {
	if c == nil {
		return ""
	}
	return c.headers[name]
}

// Len reports the number of message entries, counting each plural set once.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages) + len(c.plurals)
}

// Merge unions other into c. Entries from other overwrite overlapping
// keys, and when other defines plural selection logic it replaces the
// current one. Merging a nil or empty catalog is a no-op.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	if c.messages == nil {
		c.messages = make(map[string]string)
	}
	if c.plurals == nil {
		c.plurals = make(map[string][]string)
	}
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	maps.Copy(c.messages, other.messages)
	for k, forms := range other.plurals {
		c.plurals[k] = append([]string(nil), forms...)
	}
	maps.Copy(c.headers, other.headers)
	if other.plural != nil {
		c.plural = other.plural
		c.nplurals = other.nplurals
	}
}
