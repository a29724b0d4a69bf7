package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinderSplits(t *testing.T) {
	f := NewFinder("a,b,c")

	assert.Equal(t, "a", f.Next(","))
	assert.Equal(t, "b", f.Next(","))
	assert.False(t, f.AtEnd())
	assert.Equal(t, "c", f.Next(","), "missing terminator yields the remainder")
	assert.True(t, f.AtEnd())
	assert.Equal(t, "", f.Next(","), "exhausted finder yields empty tokens")
}

func TestFinderTrailingSeparatorEndsInput(t *testing.T) {
	f := NewFinder("k\x02v\x03")

	assert.Equal(t, "k", f.Next("\x02"))
	assert.Equal(t, "v", f.Next("\x03"))
	assert.True(t, f.AtEnd())
}

func TestFinderEmptyFields(t *testing.T) {
	f := NewFinder("\x02\x03")

	assert.Equal(t, "", f.Next("\x02"))
	assert.Equal(t, "", f.Next("\x03"))
	assert.True(t, f.AtEnd())
}

func TestFinderSeek(t *testing.T) {
	f := NewFinder("\x01rest")
	f.Seek(1)
	assert.Equal(t, "rest", f.Rest())

	f.Seek(100)
	assert.True(t, f.AtEnd())

	f.Seek(-3)
	assert.Equal(t, "\x01rest", f.Rest())
}

func TestFinderEmptySeparatorTakesRest(t *testing.T) {
	f := NewFinder("abc")
	assert.Equal(t, "abc", f.Next(""))
	assert.True(t, f.AtEnd())
}

func TestFinderMultiByteSeparator(t *testing.T) {
	f := NewFinder("one::two")
	assert.Equal(t, "one", f.Next("::"))
	assert.Equal(t, "two", f.Next("::"))
}
