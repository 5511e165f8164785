package devicetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeader(t *testing.T) {
	b := newTestBuilder()
	b.beginNode("")
	b.endNode()
	b.endStructure()

	buf := b.build()

	h, ok := ParseHeader(buf)
	assert.True(t, ok)
	assert.EqualValues(t, magic, h.Magic)
	assert.EqualValues(t, 17, h.Version)
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	b := newTestBuilder()
	b.beginNode("")
	b.endNode()
	b.endStructure()
	buf := b.build()

	buf[0] = 0xff // corrupt magic

	_, ok := ParseHeader(buf)
	assert.False(t, ok)
}

func TestParseHeaderRejectsTruncated(t *testing.T) {
	_, ok := ParseHeader(make([]byte, 10))
	assert.False(t, ok)
}

func TestParseHeaderRejectsTruncatedBody(t *testing.T) {
	b := newTestBuilder()
	b.beginNode("")
	b.endNode()
	b.endStructure()
	full := b.build()

	// Header declares a total_size larger than the buffer actually holds.
	buf := full[:len(full)-8]

	_, ok := ParseHeader(buf)
	assert.False(t, ok)
}
