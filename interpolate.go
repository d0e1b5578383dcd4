package babel

import (
	"fmt"
	"maps"
	"strings"
)

// M carries named interpolation variables for the gettext family.
type M map[string]any

// interpolate substitutes python-format named placeholders ("%(name)s",
// "%(num)d") in a translated string — the convention compiled gettext
// catalogs actually contain. With no variables the string passes through
// untouched. Mismatches are surfaced in the output the way package fmt
// reports formatting errors: a missing variable renders as
// "%!(MISSING=name)" and a type mismatch as fmt's "%!d(...)" marker.
func interpolate(s string, vars M) string {
	if len(vars) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			b.WriteByte('%')
			i += 2
			continue
		}
		if i+1 < len(s) && s[i+1] == '(' {
			if end := strings.IndexByte(s[i+2:], ')'); end >= 0 && i+2+end+1 < len(s) {
				name := s[i+2 : i+2+end]
				verb := s[i+2+end+1]
				if isFormatVerb(verb) {
					if v, ok := vars[name]; ok {
						b.WriteString(formatVerb(verb, v))
					} else {
						b.WriteString("%!(MISSING=" + name + ")")
					}
					i += end + 4
					continue
				}
			}
		}
		b.WriteByte('%')
		i++
	}
	return b.String()
}

func isFormatVerb(c byte) bool {
	switch c {
	case 's', 'd', 'i', 'f', 'g', 'e', 'x', 'X', 'o', 'c', 'r':
		return true
	}
	return false
}

func formatVerb(verb byte, v any) string {
	switch verb {
	case 's', 'r':
		return fmt.Sprint(v)
	case 'i':
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%"+string(verb), v)
	}
}

// mergeVars flattens the optional variadic maps into one, later maps
// winning on duplicate names.
func mergeVars(vars []M) M {
	switch len(vars) {
	case 0:
		return nil
	case 1:
		return vars[0]
	}
	merged := make(M)
	for _, m := range vars {
		maps.Copy(merged, m)
	}
	return merged
}
