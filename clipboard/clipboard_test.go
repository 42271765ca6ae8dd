package clipboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/register"
)

type fakeProvider struct {
	writes [][]byte
	fail   bool
}

func (f *fakeProvider) Write(data []byte) error {
	if f.fail {
		return fmt.Errorf("fake provider failure")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.writes = append(f.writes, cp)
	return nil
}

func line(text string) *buffer.Line {
	l := &buffer.Line{}
	l.SetText([]byte(text))
	return l
}

func TestSyncMirrorsLineRegister(t *testing.T) {
	bank := register.New()
	reg, err := bank.Get('a')
	require.NoError(t, err)
	reg.Kind = register.Lines
	reg.WholeLines = []*buffer.Line{line("one"), line("two")}

	prov := &fakeProvider{}
	m := NewMirror(prov, 0)

	sent, err := m.Sync(bank, 'a')
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, prov.writes, 1)
	assert.Equal(t, "one\ntwo\n", string(prov.writes[0]))
}

func TestSyncMirrorsCharsRegister(t *testing.T) {
	bank := register.New()
	reg, err := bank.Get('b')
	require.NoError(t, err)
	reg.Kind = register.Chars
	reg.FirstSegment = []byte("hello")

	prov := &fakeProvider{}
	m := NewMirror(prov, 0)

	sent, err := m.Sync(bank, 'b')
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "hello", string(prov.writes[0]))
}

func TestSyncSkipsEmptyRegister(t *testing.T) {
	bank := register.New()
	prov := &fakeProvider{}
	m := NewMirror(prov, 0)

	sent, err := m.Sync(bank, 'c')
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, prov.writes)
}

func TestSyncReportsProviderErrorButStillRecordsHistory(t *testing.T) {
	bank := register.New()
	reg, err := bank.Get('d')
	require.NoError(t, err)
	reg.Kind = register.Chars
	reg.FirstSegment = []byte("x")

	prov := &fakeProvider{fail: true}
	m := NewMirror(prov, 0)

	sent, err := m.Sync(bank, 'd')
	assert.True(t, sent)
	assert.Error(t, err)
	assert.Len(t, m.History(), 1)
}

func TestHistoryIsCappedAndEntriesHaveUniqueIDs(t *testing.T) {
	bank := register.New()
	reg, err := bank.Get('e')
	require.NoError(t, err)
	reg.Kind = register.Chars

	prov := &fakeProvider{}
	m := NewMirror(prov, 2)

	for i := 0; i < 5; i++ {
		reg.FirstSegment = []byte(fmt.Sprintf("v%d", i))
		_, err := m.Sync(bank, 'e')
		require.NoError(t, err)
	}

	hist := m.History()
	require.Len(t, hist, 2)
	assert.Equal(t, "v3", string(hist[0].Data))
	assert.Equal(t, "v4", string(hist[1].Data))
	assert.NotEqual(t, hist[0].ID, hist[1].ID)
}
