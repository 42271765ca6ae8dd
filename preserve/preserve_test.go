package preserve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvi-go/xvi/buffer"
	"github.com/xvi-go/xvi/undo"
)

func newBufWithLines(t *testing.T, lines ...string) *buffer.Buffer {
	t.Helper()
	b := buffer.New("")
	eng := undo.New(b, 100)

	newLines := make([]*buffer.Line, len(lines))
	for i, text := range lines {
		l := &buffer.Line{}
		l.SetText([]byte(text))
		newLines[i] = l
	}

	eng.StartCommand(buffer.Position{})
	require.NoError(t, b.ReplLines(b.File(), 1, newLines))
	eng.EndCommand()
	return b
}

func TestUnsafePolicyNeverPreserves(t *testing.T) {
	dir := t.TempDir()
	buf := newBufWithLines(t, "hello")
	st := &State{}
	did, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Unsafe, 100)
	require.NoError(t, err)
	assert.False(t, did)
}

func TestSafePolicyAlwaysPreserves(t *testing.T) {
	dir := t.TempDir()
	buf := newBufWithLines(t, "hello", "world")
	st := &State{}
	did, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Safe, 0)
	require.NoError(t, err)
	assert.True(t, did)
	assert.FileExists(t, st.TempFile)

	content, err := os.ReadFile(st.TempFile)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(content))
}

func TestParanoidUnpreserveKeepsFile(t *testing.T) {
	dir := t.TempDir()
	buf := newBufWithLines(t, "x")
	st := &State{}
	_, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Paranoid, 0)
	require.NoError(t, err)

	require.NoError(t, Unpreserve(st, Paranoid))
	assert.FileExists(t, st.TempFile)
}

func TestNonParanoidUnpreserveRemovesFile(t *testing.T) {
	dir := t.TempDir()
	buf := newBufWithLines(t, "x")
	st := &State{}
	_, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Safe, 0)
	require.NoError(t, err)
	path := st.TempFile

	require.NoError(t, Unpreserve(st, Safe))
	assert.NoFileExists(t, path)
	assert.Empty(t, st.TempFile)
}

func TestStandardPolicySkipsRecentPreserve(t *testing.T) {
	dir := t.TempDir()
	buf := newBufWithLines(t, "x")
	st := &State{}
	_, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Standard, 0)
	require.NoError(t, err)

	did, err := Preserve(buf, st, filepath.Join(dir, "file.txt"), Standard, 5)
	require.NoError(t, err)
	assert.False(t, did)
}
