// Package gettext reads and merges compiled GNU gettext message catalogs.
//
// A Catalog maps (context, msgid) pairs to translations, keeps ordered
// plural-form lists, and carries the plural selection function compiled
// from the catalog's Plural-Forms header. Catalogs loaded from several
// sources merge with last-write-wins semantics: entries from a later
// catalog replace overlapping earlier ones, and the composite's plural
// selection function is the one from the last catalog that defines it.
//
// Lookups never fail. A missing translation returns the source string,
// and the zero-value Catalog behaves as the identity over all inputs.
//
// Catalogs are loaded from the standard directory layout
// <dir>/<locale>/LC_MESSAGES/<domain>.mo via FileLoader, or from an
// fs.FS (usually an embed.FS shipped inside a plugin package) via LoadFS.
package gettext
