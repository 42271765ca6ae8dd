package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTagsFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tags")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLookupFindsExactTag(t *testing.T) {
	path := writeTagsFile(t, "main\tmain.go\t/^func main/\n")
	c := New()
	require.NoError(t, c.Load([]string{path}, 0))

	e, length, _, err := c.Lookup("main")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "main.go", e.File)
	assert.Equal(t, "/^func main/", e.Locator)
	assert.Equal(t, 4, length)
}

func TestLookupMissReportsOffsetToNextIdentifier(t *testing.T) {
	c := New()
	require.NoError(t, c.Load(nil, 0))
	_, _, offset, err := c.Lookup("  foo")
	require.NoError(t, err)
	assert.Equal(t, 2, offset)
}

func TestLookupStripsExuberantCtagsExtension(t *testing.T) {
	path := writeTagsFile(t, "ANY\tregexp.c\t95;\"\td\tfile:\n")
	c := New()
	require.NoError(t, c.Load([]string{path}, 0))
	e, _, _, err := c.Lookup("ANY")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "95", e.Locator)
}

func TestLookupRespectsTagLength(t *testing.T) {
	path := writeTagsFile(t, "foo\tfile.go\t1\n")
	c := New()
	require.NoError(t, c.Load([]string{path}, 3))
	e, length, _, err := c.Lookup("foobar")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 3, length)
}

func TestParseLocatorDecimal(t *testing.T) {
	n, ok := ParseLocator("42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ParseLocator("/^pattern$/")
	assert.False(t, ok)
}
