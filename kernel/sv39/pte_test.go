package sv39

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPTEValidAndLeaf(t *testing.T) {
	var e PTE
	assert.False(t, e.IsValid())
	assert.False(t, e.IsLeaf())

	branch := newBranch(PPN(0x1234))
	assert.True(t, branch.IsValid())
	assert.False(t, branch.IsLeaf())
	assert.EqualValues(t, 0x1234, branch.PPN())

	leaf := newLeaf(PPN(0x5678), Flags{Read: true, Exec: true})
	assert.True(t, leaf.IsValid())
	assert.True(t, leaf.IsLeaf())
	assert.EqualValues(t, 0x5678, leaf.PPN())
}

func TestFlagsBits(t *testing.T) {
	f := Flags{Read: true, Write: true, Global: true}
	e := PTE(f.bits())
	assert.True(t, e.IsValid())
	assert.NotZero(t, e&flagRead)
	assert.NotZero(t, e&flagWrite)
	assert.Zero(t, e&flagExec)
	assert.NotZero(t, e&flagGlobal)
}

func TestWithPPNRoundTrip(t *testing.T) {
	e := newLeaf(PPN(0x1), Flags{Read: true})
	e = e.withPPN(PPN(0xABCDE))
	assert.EqualValues(t, 0xABCDE, e.PPN())
	assert.True(t, e.IsValid())
}
