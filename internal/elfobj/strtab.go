// SPDX-License-Identifier: MIT

package elfobj

import (
	"bytes"
	"fmt"
)

// stringAt reads a NUL-terminated string out of a string-table buffer at
// the given byte offset.
func stringAt(buf []byte, offset uint32) (string, error) {
	if int(offset) > len(buf) {
		return "", fmt.Errorf("string offset %d out of range (table size %d)", offset, len(buf))
	}
	rest := buf[offset:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		return string(rest[:i]), nil
	}
	return "", fmt.Errorf("unterminated string at offset %d", offset)
}

// StringTableBuilder accumulates unique strings and their offsets,
// deduplicating identical entries the way a production string table does.
type StringTableBuilder struct {
	offsets map[string]uint32
	order   []string
	pos     uint32
}

func NewStringTableBuilder() *StringTableBuilder {
	b := &StringTableBuilder{offsets: make(map[string]uint32), pos: 1}
	return b
}

// Add interns s and returns its offset in the eventual table. The empty
// string always maps to offset 0 (the table's leading NUL).
func (b *StringTableBuilder) Add(s string) uint32 {
	if s == "" {
		return 0
	}
	if off, ok := b.offsets[s]; ok {
		return off
	}
	off := b.pos
	b.offsets[s] = off
	b.order = append(b.order, s)
	b.pos += uint32(len(s)) + 1
	return off
}

// Bytes renders the accumulated table: a leading NUL followed by each
// added string (in insertion order) NUL-terminated.
func (b *StringTableBuilder) Bytes() []byte {
	buf := make([]byte, b.pos)
	off := uint32(1)
	for _, s := range b.order {
		copy(buf[off:], s)
		off += uint32(len(s)) + 1
	}
	return buf
}
