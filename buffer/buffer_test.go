package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b := New("scratch")

	assert.Equal(t, "scratch", b.Filename)
	assert.True(t, IsLine0(b.Line0()))
	assert.True(t, IsLastline(b.Lastline()))
	assert.Equal(t, b.File(), b.Line0().Next)
	assert.Equal(t, b.File(), b.Lastline().Prev)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 1, b.Count())
}

func TestBuffer_NewLine_Ordering(t *testing.T) {
	b := New("t")

	l1 := b.NewLine(b.File(), 0)
	l1.SetText([]byte("one"))
	b.SpliceLines(b.Lastline(), 0, []*Line{l1})

	l2 := b.NewLine(l1, 0)
	l2.SetText([]byte("two"))
	b.SpliceLines(b.Lastline(), 0, []*Line{l2})

	require.Equal(t, 3, b.Count())
	assert.Less(t, b.File().Number, l1.Number)
	assert.Less(t, l1.Number, l2.Number)
	assert.Equal(t, "one", string(b.LineAt(2).Text))
	assert.Equal(t, "two", string(b.LineAt(3).Text))
}

func TestBuffer_NewLine_RenumbersOnCollision(t *testing.T) {
	b := New("t")
	second := &Line{Text: []byte("second"), Number: b.file.Number + 1}
	b.SpliceLines(b.lastline, 0, []*Line{second})
	require.Equal(t, b.file.Number+1, second.Number)

	// A line inserted directly after file collides with second's number,
	// forcing second (and anything after it) to be bumped up by one.
	inserted := b.NewLine(b.file, 0)
	inserted.SetText([]byte("mid"))
	b.SpliceLines(second, 0, []*Line{inserted})

	assert.True(t, b.file.Number < inserted.Number)
	assert.True(t, inserted.Number < second.Number)
}

func TestBuffer_SpliceLines_LinkOrdering(t *testing.T) {
	b := New("t")

	a := &Line{Text: []byte("a")}
	c := &Line{Text: []byte("c")}
	old := b.SpliceLines(b.lastline, 0, []*Line{a, c})

	assert.Empty(t, old)
	assert.Equal(t, a, b.File().Next)
	assert.Equal(t, b.File(), a.Prev)
	assert.Equal(t, c, a.Next)
	assert.Equal(t, a, c.Prev)
	assert.Equal(t, b.lastline, c.Next)
	assert.True(t, a.Number < c.Number)

	bMiddle := &Line{Text: []byte("b")}
	old2 := b.SpliceLines(c, 0, []*Line{bMiddle})
	assert.Empty(t, old2)
	assert.Equal(t, bMiddle, a.Next)
	assert.Equal(t, c, bMiddle.Next)
	assert.True(t, a.Number < bMiddle.Number)
	assert.True(t, bMiddle.Number < c.Number)

	var got []string
	for l := b.File(); !IsLastline(l); l = l.Next {
		got = append(got, string(l.Text))
	}
	assert.Equal(t, []string{"", "a", "b", "c"}, got)
}

func TestBuffer_SpliceLines_Deletion(t *testing.T) {
	b := New("t")
	a := &Line{Text: []byte("a")}
	c := &Line{Text: []byte("c")}
	b.SpliceLines(b.lastline, 0, []*Line{a, c})

	old := b.SpliceLines(a, 1, nil)
	require.Len(t, old, 1)
	assert.Equal(t, a, old[0])
	assert.Equal(t, c, b.File().Next)
	assert.Equal(t, b.File(), c.Prev)
}

func TestBuffer_Throw(t *testing.T) {
	b := New("t")
	a := &Line{Text: []byte("a")}
	b.SpliceLines(b.lastline, 0, []*Line{a})

	old := b.SpliceLines(a, 1, nil)
	b.Throw(old[0])
	// The pool absorbed it; buffer state itself is unaffected since old[0]
	// was already unlinked.
	assert.Equal(t, 1, b.Count())
}

func TestBuffer_LineAtAndLineNo(t *testing.T) {
	b := New("t")
	a := &Line{Text: []byte("a")}
	c := &Line{Text: []byte("c")}
	b.SpliceLines(b.lastline, 0, []*Line{a, c})

	assert.Equal(t, b.File(), b.LineAt(1))
	assert.Equal(t, a, b.LineAt(2))
	assert.Equal(t, c, b.LineAt(3))
	assert.Nil(t, b.LineAt(0))
	assert.Nil(t, b.LineAt(99))

	assert.Equal(t, 1, b.LineNo(b.File()))
	assert.Equal(t, 2, b.LineNo(a))
	assert.Equal(t, 3, b.LineNo(c))
}

func TestBuffer_Clear(t *testing.T) {
	b := New("t")
	a := &Line{Text: []byte("a")}
	b.SpliceLines(b.lastline, 0, []*Line{a})
	require.Equal(t, 2, b.Count())

	b.Clear()
	assert.Equal(t, 1, b.Count())
	assert.True(t, b.IsEmpty())
}

func TestBuffer_ReplWithoutChangeRecorder(t *testing.T) {
	b := New("t")
	err := b.ReplChars(b.File(), 0, 0, []byte("x"))
	assert.Error(t, err)

	err = b.ReplLines(b.File(), 0, nil)
	assert.Error(t, err)

	err = b.ReplBuffer(b.File())
	assert.Error(t, err)
}
