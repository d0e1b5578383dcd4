package gettext_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

// moEntry describes one message for buildMO. Headers are encoded as an
// entry with an empty ID whose first translation holds the header block.
type moEntry struct {
	Ctx    string
	ID     string
	Plural string
	Trs    []string
}

// headerEntry builds the metadata entry from "Name: Value" lines.
func headerEntry(lines ...string) moEntry {
	return moEntry{Trs: []string{strings.Join(lines, "\n")}}
}

// buildMO assembles a little-endian compiled catalog from entries.
func buildMO(t *testing.T, entries ...moEntry) []byte {
	t.Helper()

	origs := make([][]byte, len(entries))
	trans := make([][]byte, len(entries))
	for i, e := range entries {
		o := e.ID
		if e.Ctx != "" {
			o = e.Ctx + "\x04" + o
		}
		if e.Plural != "" {
			o += "\x00" + e.Plural
		}
		origs[i] = []byte(o)
		trans[i] = []byte(strings.Join(e.Trs, "\x00"))
	}

	n := uint32(len(entries))
	const headerSize = 28
	origTable := uint32(headerSize)
	transTable := origTable + n*8
	dataStart := transTable + n*8

	var buf bytes.Buffer
	le := binary.LittleEndian
	writeU32 := func(v uint32) {
		var b [4]byte
		le.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	writeU32(0x950412de) // magic
	writeU32(0)          // revision
	writeU32(n)
	writeU32(origTable)
	writeU32(transTable)
	writeU32(0) // hash table size
	writeU32(0) // hash table offset

	offset := dataStart
	var strData bytes.Buffer
	appendStr := func(s []byte) (length, off uint32) {
		off = offset
		strData.Write(s)
		strData.WriteByte(0)
		length = uint32(len(s))
		offset += length + 1
		return length, off
	}

	type desc struct{ length, off uint32 }
	origDescs := make([]desc, n)
	transDescs := make([]desc, n)
	for i := range entries {
		l, o := appendStr(origs[i])
		origDescs[i] = desc{l, o}
	}
	for i := range entries {
		l, o := appendStr(trans[i])
		transDescs[i] = desc{l, o}
	}

	for _, d := range origDescs {
		writeU32(d.length)
		writeU32(d.off)
	}
	for _, d := range transDescs {
		writeU32(d.length)
		writeU32(d.off)
	}
	buf.Write(strData.Bytes())

	return buf.Bytes()
}
