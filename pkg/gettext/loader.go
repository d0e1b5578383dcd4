package gettext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader locates and parses a compiled catalog for a (directory, locale,
// domain) triple. Implementations return ErrNotFound when no catalog
// exists, which callers treat as an empty contribution rather than a
// failure.
type Loader interface {
	Load(dir, locale, domain string) (*Catalog, error)
}

// FileLoader reads catalogs from the local filesystem.
type FileLoader struct{}

// Load looks for dir/<locale>/LC_MESSAGES/<domain>.mo, falling back to
// the two-letter base language when the full locale has no catalog.
func (FileLoader) Load(dir, locale, domain string) (*Catalog, error) {
	for _, cand := range localeCandidates(locale) {
		name := filepath.Join(dir, cand, "LC_MESSAGES", domain+".mo")
		data, err := os.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("gettext: reading %s: %w", name, err)
		}
		c, err := ParseMO(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s/*/LC_MESSAGES/%s.mo", ErrNotFound, dir, domain)
}

// LoadFS reads a catalog from an embedded or virtual filesystem at the
// conventional plugin resource path translations/<locale>/LC_MESSAGES/<domain>.mo.
func LoadFS(fsys fs.FS, locale, domain string) (*Catalog, error) {
	for _, cand := range localeCandidates(locale) {
		name := path.Join("translations", cand, "LC_MESSAGES", domain+".mo")
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("gettext: reading %s: %w", name, err)
		}
		c, err := ParseMO(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: translations/*/LC_MESSAGES/%s.mo", ErrNotFound, domain)
}

// localeCandidates lists the directory names to try for a locale, most
// specific first: "pt_BR" then "pt".
func localeCandidates(locale string) []string {
	cands := []string{locale}
	if base, _, ok := strings.Cut(locale, "_"); ok && base != "" && base != locale {
		cands = append(cands, base)
	}
	return cands
}
