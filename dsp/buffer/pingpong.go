package buffer

const external = -1

// PingPong threads a block through a series of processing stages using two
// preallocated scratch buffers.
//
// The arena tracks which buffer holds the current signal. Initially that is
// the caller's input (Begin) or scratch buffer 0 (BeginCopy). Each stage reads
// the current signal and writes into the scratch buffer that is not current;
// Advance makes that output current. A stage that did not produce output
// simply is not advanced, and the next stage reads the same input again.
type PingPong struct {
	scratch [2]*Buffer

	input   []float64
	current int
	n       int
}

// NewPingPong allocates two scratch buffers of the given capacity.
func NewPingPong(capacity int) *PingPong {
	return &PingPong{
		scratch: [2]*Buffer{New(capacity), New(capacity)},
		current: external,
	}
}

// Cap returns the largest block the arena can hold.
func (p *PingPong) Cap() int {
	return p.scratch[0].Cap()
}

// Begin starts a pass whose current signal is the caller-owned input. The
// input is never written to.
func (p *PingPong) Begin(input []float64) {
	p.input = input
	p.current = external
	p.n = len(input)
}

// BeginCopy starts a pass of n samples whose current signal lives in scratch
// buffer 0. The returned slice is to be filled by the caller.
func (p *PingPong) BeginCopy(n int) []float64 {
	p.input = nil
	p.current = 0
	p.n = n

	return p.scratch[0].Resize(n)
}

// Stage returns the current signal and the scratch buffer the next stage
// writes to.
func (p *PingPong) Stage() (in, out []float64) {
	next := 0
	if p.current == 0 {
		next = 1
	}

	return p.Current(), p.scratch[next].Resize(p.n)
}

// Advance makes the last stage's output the current signal.
func (p *PingPong) Advance() {
	if p.current == 0 {
		p.current = 1
	} else {
		p.current = 0
	}
}

// Current returns the current signal.
func (p *PingPong) Current() []float64 {
	if p.current == external {
		return p.input
	}

	return p.scratch[p.current].Resize(p.n)
}

// External reports whether the current signal is still the caller's input.
func (p *PingPong) External() bool {
	return p.current == external
}

// End drops the reference to the caller's input.
func (p *PingPong) End() {
	p.input = nil
	p.current = external
	p.n = 0
}
