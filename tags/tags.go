// Package tags implements the tag cache: a hashed lookup table loaded
// from one or more ctags-format files.
package tags

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Entry is one tag definition: name, the file it's defined
// in, and a locator that is either a decimal line number or a delimited
// search pattern.
type Entry struct {
	Name    string
	File    string
	Locator string
}

// isIdentChar matches the original's IDCHAR macro: alnum or underscore.
func isIdentChar(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

const hashTableSize = 1009 // prime, per the original's tags.c

// Cache is the loaded tag hash table. It is invalidated by changes to
// the `tags`/`taglength` parameters — see param.Hooks.InvalidateTags.
type Cache struct {
	buckets   [hashTableSize][]*Entry
	loaded    bool
	taglength int
}

// New creates an empty, unloaded Cache.
func New() *Cache { return &Cache{} }

// Invalidate discards the loaded table. A Lookup on an invalidated Cache
// loads no tag files and finds nothing until Load is called again.
func (c *Cache) Invalidate() {
	for i := range c.buckets {
		c.buckets[i] = nil
	}
	c.loaded = false
}

func hash(name string) uint32 {
	var f uint32
	for i := 0; i < len(name); i++ {
		f <<= 1
		f ^= uint32(name[i])
	}
	return f
}

// Load reads every file in files (the `tags` parameter's list, in order)
// into the hash table. Multi-file support iterates through the tags
// parameter in order.
func (c *Cache) Load(files []string, taglength int) error {
	c.Invalidate()
	c.taglength = taglength
	for _, f := range files {
		if err := c.loadFile(f); err != nil {
			return fmt.Errorf("tags: %w", err)
		}
	}
	c.loaded = true
	return nil
}

func (c *Cache) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		e := parseLine(line, path)
		if e == nil {
			continue
		}
		c.insert(e)
	}
	return sc.Err()
}

// parseLine parses one ctags-format line: "name\tfile\tlocator", with an
// optional Exuberant-ctags extension field trailing `;"` stripped.
func parseLine(line, fallbackFile string) *Entry {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 3 {
		return nil
	}
	name, file, locator := fields[0], fields[1], fields[2]
	if file == "" {
		file = fallbackFile
	}
	locator = stripCtagsExtension(locator)
	return &Entry{Name: name, File: file, Locator: locator}
}

// stripCtagsExtension removes a trailing `;"\t...` Exuberant-ctags
// extension field, e.g. `/^foo$/;"\td\tfile:` -> `/^foo$/`.
func stripCtagsExtension(locator string) string {
	if i := strings.Index(locator, ";\""); i >= 0 {
		return locator[:i]
	}
	return locator
}

func (c *Cache) insert(e *Entry) {
	b := hash(e.Name) % hashTableSize
	c.buckets[b] = append(c.buckets[b], e)
}

// Lookup finds the tag whose name matches the identifier starting at
// name, optionally length-capped by taglength (0 means unlimited). It
// reports the matched length and, on failure, how many leading
// non-identifier bytes separate the current position from the next
// possible identifier — used by the display pipeline to colour tag
// identifiers inline, mirroring the original's tagLookup(name, &len, &offset).
func (c *Cache) Lookup(name string) (entry *Entry, matchLen, offset int, err error) {
	if name == "" {
		return nil, 0, 0, nil
	}
	if !c.loaded {
		if err := c.Load(nil, c.taglength); err != nil {
			return nil, 0, 0, err
		}
	}
	if !isIdentChar(name[0]) {
		n := 0
		for n < len(name) && !isIdentChar(name[n]) {
			n++
		}
		return nil, 0, n, nil
	}

	maxChars := c.taglength
	if maxChars == 0 {
		maxChars = len(name)
	}

	length := 0
	for length < len(name) && isIdentChar(name[length]) && length < maxChars {
		length++
	}
	ident := name[:length]

	off := length
	for off < len(name) && isIdentChar(name[off]) {
		off++
	}

	b := hash(ident) % hashTableSize
	for _, e := range c.buckets[b] {
		// A match requires the stored name to equal the capped
		// identifier exactly: strncmp over `length` bytes AND the
		// stored name is no longer than `length`.
		if e.Name == ident {
			return e, length, off, nil
		}
	}
	return nil, length, off, nil
}

// ParseLocator interprets a locator as a decimal line number when
// possible, reporting ok=false when it is instead a search pattern that
// the caller must resolve via search.FindPattern.
func ParseLocator(locator string) (lineNo int, ok bool) {
	n, err := strconv.Atoi(locator)
	if err != nil {
		return 0, false
	}
	return n, true
}
