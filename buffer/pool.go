package buffer

// linePool is a typed slab allocator for Line records. The original C
// implementation shared one free list between Line and Change records
// because both fit the same union-compatible layout. That trick buys
// nothing under a modern allocator and loses type safety, so we keep one
// typed pool per record kind instead (see undo.changePool for the other
// half).
//
// The free list is LIFO — the most recently freed Line is handed back out
// first, which keeps its backing array's capacity useful for the next
// caller and is friendlier to allocator/cache locality than FIFO reuse.
type linePool struct {
	free  []*Line
	block int
}

const poolBlockSize = 16

func newLinePool() *linePool {
	return &linePool{block: poolBlockSize}
}

// get returns a Line ready for use, sized for minChars of text, reusing a
// freed record when one is available.
func (p *linePool) get(number uint64, minChars int) *Line {
	if len(p.free) == 0 {
		p.refill()
	}
	l := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	l.Number = number
	l.Prev = nil
	l.Next = nil
	l.resize(minChars)
	l.Text = l.Text[:0]
	return l
}

// put returns a Line to the pool. Callers must not hold other references
// to l afterwards.
func (p *linePool) put(l *Line) {
	l.Prev, l.Next = nil, nil
	p.free = append(p.free, l)
}

// refill mallocs a block of poolBlockSize fresh records at once, amortising
// allocation cost.
func (p *linePool) refill() {
	for i := 0; i < p.block; i++ {
		p.free = append(p.free, &Line{})
	}
}
