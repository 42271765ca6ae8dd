package undo

// changePool is a typed slab allocator for Change records, the other half
// of the split described in buffer.linePool's doc comment: the original C
// shared one free list between Line and Change because of union layout
// tricks; we keep two separate typed pools instead.
type changePool struct {
	free []*Change
}

func newChangePool() *changePool { return &changePool{} }

func (p *changePool) get() *Change {
	if len(p.free) == 0 {
		p.refill()
	}
	c := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	*c = Change{}
	return c
}

func (p *changePool) put(c *Change) {
	c.Lines = nil
	c.Chars = nil
	p.free = append(p.free, c)
}

func (p *changePool) refill() {
	const block = 16
	for i := 0; i < block; i++ {
		p.free = append(p.free, &Change{})
	}
}
