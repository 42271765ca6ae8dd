package flexbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexbuf_AppendAndString(t *testing.T) {
	var f Flexbuf
	f.AppendByte('a')
	f.Append([]byte("bc"))
	f.AppendString("de")

	assert.Equal(t, "abcde", f.String())
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, []byte("abcde"), f.Bytes())
}

func TestFlexbuf_PopFront(t *testing.T) {
	var f Flexbuf
	f.AppendString("abc")

	c, ok := f.PopFront()
	require.True(t, ok)
	assert.Equal(t, byte('a'), c)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "bc", f.String())

	c, ok = f.PopFront()
	require.True(t, ok)
	assert.Equal(t, byte('b'), c)

	c, ok = f.PopFront()
	require.True(t, ok)
	assert.Equal(t, byte('c'), c)

	_, ok = f.PopFront()
	assert.False(t, ok, "popping an exhausted buffer must report not-ok")
}

func TestFlexbuf_PeekFrontDoesNotConsume(t *testing.T) {
	var f Flexbuf
	f.AppendString("xyz")

	c, ok := f.PeekFront()
	require.True(t, ok)
	assert.Equal(t, byte('x'), c)
	assert.Equal(t, 3, f.Len(), "peek must not advance the read cursor")

	c, _ = f.PopFront()
	assert.Equal(t, byte('x'), c)
}

func TestFlexbuf_PeekFront_Empty(t *testing.T) {
	var f Flexbuf
	_, ok := f.PeekFront()
	assert.False(t, ok)
}

func TestFlexbuf_AppendAfterFullyPopped_ReusesStorage(t *testing.T) {
	var f Flexbuf
	f.AppendString("ab")
	f.PopFront()
	f.PopFront()
	require.Equal(t, 0, f.Len())

	f.AppendString("cd")
	assert.Equal(t, "cd", f.String())
}

func TestFlexbuf_InsertAt(t *testing.T) {
	var f Flexbuf
	f.AppendString("ac")
	f.InsertAt(1, []byte("b"))
	assert.Equal(t, "abc", f.String())

	f.InsertAt(0, []byte("_"))
	assert.Equal(t, "_abc", f.String())

	f.InsertAt(100, []byte("$"))
	assert.Equal(t, "_abc$", f.String())
}

func TestFlexbuf_InsertAt_AfterPartialPop(t *testing.T) {
	var f Flexbuf
	f.AppendString("xabc")
	f.PopFront() // consume leading 'x', unread region is now "abc"

	f.InsertAt(1, []byte("-"))
	assert.Equal(t, "a-bc", f.String())
}

func TestFlexbuf_RemoveRange(t *testing.T) {
	var f Flexbuf
	f.AppendString("abcdef")

	f.RemoveRange(1, 3)
	assert.Equal(t, "adef", f.String())

	f.RemoveRange(5, 10) // out of range, clamps to len
	assert.Equal(t, "adef", f.String())

	f.RemoveRange(2, 1) // start >= end, no-op
	assert.Equal(t, "adef", f.String())
}

func TestFlexbuf_Reset(t *testing.T) {
	var f Flexbuf
	f.AppendString("abc")
	f.Reset()
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, "", f.String())

	f.AppendString("new")
	assert.Equal(t, "new", f.String())
}

func TestFlexbuf_DetachAsString(t *testing.T) {
	var f Flexbuf
	f.AppendString("payload")

	s := f.DetachAsString()
	assert.Equal(t, "payload", s)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, "", f.String())
}

func TestFlexbuf_Printf_Literal(t *testing.T) {
	var f Flexbuf
	f.Printf("no verbs here")
	assert.Equal(t, "no verbs here", f.String())
}

func TestFlexbuf_Printf_BasicVerbs(t *testing.T) {
	var f Flexbuf
	f.Printf("%d-%u-%s-%c", 42, uint(7), "hi", byte('!'))
	assert.Equal(t, "42-7-hi-!", f.String())
}

func TestFlexbuf_Printf_PercentLiteral(t *testing.T) {
	var f Flexbuf
	f.Printf("100%%")
	assert.Equal(t, "100%", f.String())
}

func TestFlexbuf_Printf_LengthModifiersAreNoOps(t *testing.T) {
	var f Flexbuf
	f.Printf("%ld %lu", int64(5), uint64(6))
	assert.Equal(t, "5 6", f.String())
}

func TestFlexbuf_Printf_WidthAndJustify(t *testing.T) {
	var f Flexbuf
	f.Printf("[%5d][%-5d]", 3, 3)
	assert.Equal(t, "[    3][3    ]", f.String())
}

func TestFlexbuf_Printf_Precision_TruncatesString(t *testing.T) {
	var f Flexbuf
	f.Printf("%.3s", "abcdef")
	assert.Equal(t, "abc", f.String())
}

func TestFlexbuf_Printf_UnknownVerbPassesThrough(t *testing.T) {
	var f Flexbuf
	f.Printf("%z")
	assert.Equal(t, "%z", f.String())
}

func TestFlexbuf_Printf_TrailingPercent(t *testing.T) {
	var f Flexbuf
	f.Printf("abc%")
	assert.Equal(t, "abc%", f.String())
}

func TestFlexbuf_Printf_ShortArgListDegradesGracefully(t *testing.T) {
	var f Flexbuf
	f.Printf("%s-%c", "only")
	assert.Equal(t, "only-", f.String())
}
