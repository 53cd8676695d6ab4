package serial

// Mem is an in-memory Port. Bytes passed to Feed become readable; bytes
// written are collected until TakeOutput. Single-goroutine use only.
type Mem struct {
	in   []byte
	out  []byte
	peer *Mem
}

func NewMem() *Mem { return &Mem{} }

// Pipe returns two connected ports: writes on one are readable on the other.
func Pipe() (*Mem, *Mem) {
	a, b := &Mem{}, &Mem{}
	a.peer, b.peer = b, a
	return a, b
}

// Feed queues bytes for TryRead.
func (m *Mem) Feed(p []byte) { m.in = append(m.in, p...) }

// FeedString is Feed for string literals in tests and simulations.
func (m *Mem) FeedString(s string) { m.in = append(m.in, s...) }

func (m *Mem) TryRead(p []byte) int {
	n := copy(p, m.in)
	m.in = m.in[n:]
	if len(m.in) == 0 {
		m.in = nil
	}
	return n
}

func (m *Mem) Write(p []byte) (int, error) {
	if m.peer != nil {
		m.peer.in = append(m.peer.in, p...)
	}
	m.out = append(m.out, p...)
	return len(p), nil
}

// TakeOutput returns and clears everything written so far.
func (m *Mem) TakeOutput() []byte {
	out := m.out
	m.out = nil
	return out
}

// Pending reports unread input bytes.
func (m *Mem) Pending() int { return len(m.in) }
