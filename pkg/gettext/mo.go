package gettext

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Compiled catalogs start with the GNU gettext magic number, stored in
// the byte order the file uses for all further words.
const (
	moMagicLittle = 0x950412de
	moMagicBig    = 0xde120495
)

// ParseMO decodes a compiled GNU gettext catalog. Context-qualified
// entries (msgctxt EOT msgid) and plural entries (msgid NUL msgid_plural)
// are stored under their composite keys. The metadata entry with an empty
// msgid populates the header map, and a Plural-Forms header compiles into
// the catalog's plural selection function.
func ParseMO(data []byte) (*Catalog, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("%w: file too short", ErrMalformedCatalog)
	}

	var order binary.ByteOrder
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case moMagicLittle:
		order = binary.LittleEndian
	case moMagicBig:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad magic number", ErrMalformedCatalog)
	}

	count := order.Uint32(data[8:12])
	origOff := order.Uint32(data[12:16])
	transOff := order.Uint32(data[16:20])

	// Both descriptor tables must fit inside the file, otherwise the
	// header is lying about the entry count.
	size := uint64(len(data))
	if uint64(origOff)+uint64(count)*8 > size || uint64(transOff)+uint64(count)*8 > size {
		return nil, fmt.Errorf("%w: string table out of range", ErrMalformedCatalog)
	}

	c := New()
	for i := uint32(0); i < count; i++ {
		orig, err := moString(data, order, origOff+i*8)
		if err != nil {
			return nil, err
		}
		trans, err := moString(data, order, transOff+i*8)
		if err != nil {
			return nil, err
		}

		if orig == "" {
			if err := c.parseHeaders(trans); err != nil {
				return nil, err
			}
			continue
		}

		// Plural entries keep only the singular msgid as the lookup key.
		msgid, _, hasPlural := strings.Cut(orig, "\x00")
		msgctxt := ""
		if ctx, id, ok := strings.Cut(msgid, eot); ok {
			msgctxt, msgid = ctx, id
		}

		if hasPlural {
			c.plurals[key(msgctxt, msgid)] = strings.Split(trans, "\x00")
		} else {
			c.messages[key(msgctxt, msgid)] = trans
		}
	}
	return c, nil
}

// moString reads one descriptor (length, offset) from a string table and
// returns the referenced bytes.
func moString(data []byte, order binary.ByteOrder, descOff uint32) (string, error) {
	if int(descOff)+8 > len(data) {
		return "", fmt.Errorf("%w: string table out of range", ErrMalformedCatalog)
	}
	length := order.Uint32(data[descOff : descOff+4])
	offset := order.Uint32(data[descOff+4 : descOff+8])
	end := uint64(offset) + uint64(length)
	if end > uint64(len(data)) {
		return "", fmt.Errorf("%w: string data out of range", ErrMalformedCatalog)
	}
	return string(data[offset:end]), nil
}

// parseHeaders fills the header map from the metadata entry and compiles
// the Plural-Forms expression when present.
func (c *Catalog) parseHeaders(meta string) error {
	for _, line := range strings.Split(meta, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		c.headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if pf, ok := c.headers["Plural-Forms"]; ok && pf != "" {
		nplurals, fn, err := ParsePluralForms(pf)
		if err != nil {
			return err
		}
		c.nplurals = nplurals
		c.plural = fn
	}
	return nil
}
