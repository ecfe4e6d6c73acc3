// SPDX-License-Identifier: MIT

package elfobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringAt(t *testing.T) {
	buf := []byte{0, 'f', 'o', 'o', 0, 'b', 'a', 'r', 0}
	s, err := stringAt(buf, 1)
	assert.NoError(t, err, "reading foo")
	assert.Equal(t, "foo", s, "foo offset")

	s, err = stringAt(buf, 5)
	assert.NoError(t, err, "reading bar")
	assert.Equal(t, "bar", s, "bar offset")

	_, err = stringAt(buf, 100)
	assert.Error(t, err, "out-of-range offset must fail")
}

func TestStringAtUnterminated(t *testing.T) {
	buf := []byte{0, 'f', 'o', 'o'}
	_, err := stringAt(buf, 1)
	assert.Error(t, err, "missing NUL terminator must fail")
}

func TestStringTableBuilderDedup(t *testing.T) {
	b := NewStringTableBuilder()
	off1 := b.Add("foo")
	off2 := b.Add("bar")
	off3 := b.Add("foo")
	assert.Equal(t, off1, off3, "duplicate string reuses the same offset")
	assert.NotEqual(t, off1, off2, "distinct strings get distinct offsets")
	assert.Equal(t, uint32(0), b.Add(""), "empty string always offsets to the leading NUL")

	buf := b.Bytes()
	s, err := stringAt(buf, off1)
	assert.NoError(t, err)
	assert.Equal(t, "foo", s)
	s, err = stringAt(buf, off2)
	assert.NoError(t, err)
	assert.Equal(t, "bar", s)
}
