package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
)

func newBuf() *buffer.Buffer { return buffer.New("") }

func TestOpenSplitsCurrentWindow(t *testing.T) {
	m := New(24, newBuf())
	orig := m.Current()
	nw, err := m.Open(newBuf(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, orig.NRows+nw.NRows, 24)
	assert.Equal(t, m.Current(), nw)
}

func TestOpenGrowsUndersizedWindowFirst(t *testing.T) {
	m := New(24, newBuf())
	_, err := m.Open(newBuf(), 22)
	require.NoError(t, err)
	w := m.All()[0]
	m.SetCurrent(w)
	_, err = m.Open(newBuf(), 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, w.NRows, MinRows)
}

func TestCloseGivesRowsToSmallerSibling(t *testing.T) {
	m := New(24, newBuf())
	nw, err := m.Open(newBuf(), 6)
	require.NoError(t, err)
	total := 0
	for _, w := range m.All() {
		total += w.NRows
	}
	require.NoError(t, m.Close(nw))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, total, m.Current().NRows)
}

func TestCloseLastWindowFails(t *testing.T) {
	m := New(24, newBuf())
	err := m.Close(m.Current())
	assert.Error(t, err)
}

func TestEqualiseDividesRowsEvenly(t *testing.T) {
	m := New(25, newBuf())
	_, err := m.Open(newBuf(), 8)
	require.NoError(t, err)
	m.Equalise(0)
	ws := m.All()
	require.Len(t, ws, 2)
	sum := ws[0].NRows + ws[1].NRows
	assert.Equal(t, 25, sum)
	assert.LessOrEqual(t, abs(ws[0].NRows-ws[1].NRows), 1)
}

func TestCurwinNeverHidden(t *testing.T) {
	m := New(10, newBuf())
	_, err := m.Open(newBuf(), 4)
	require.NoError(t, err)
	m.AdjustWindows(2)
	assert.False(t, m.Current().Hidden())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestNextDisplayedCyclesAndWraps(t *testing.T) {
	m := New(24, newBuf())
	first := m.Current()
	second, err := m.Open(newBuf(), 10)
	require.NoError(t, err)
	assert.Equal(t, second, m.NextDisplayed(first))
	assert.Equal(t, first, m.NextDisplayed(second))
}

func TestNextDisplayedSkipsHidden(t *testing.T) {
	m := New(10, newBuf())
	first := m.Current()
	_, err := m.Open(newBuf(), 4)
	require.NoError(t, err)
	m.AdjustWindows(2)
	assert.Equal(t, first, m.NextDisplayed(first))
}

func TestAtFindsWindowByRow(t *testing.T) {
	m := New(24, newBuf())
	first := m.Current()
	second, err := m.Open(newBuf(), 10)
	require.NoError(t, err)
	assert.Equal(t, first, m.At(0))
	assert.Equal(t, second, m.At(second.Top))
	assert.Nil(t, m.At(100))
}

func TestSetCurrentChangesCurrentWindow(t *testing.T) {
	m := New(24, newBuf())
	second, err := m.Open(newBuf(), 10)
	require.NoError(t, err)
	first := m.All()[0]
	m.SetCurrent(first)
	assert.Equal(t, first, m.Current())
	_ = second
}
