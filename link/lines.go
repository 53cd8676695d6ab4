package link

// DefaultMaxLine bounds a single line on either serial link.
const DefaultMaxLine = 256

// Lines accumulates bytes into LF-terminated lines inside a fixed buffer.
// CR is ignored. A line longer than the buffer is discarded whole: the
// buffer is cleared, one overflow is counted and bytes are dropped until the
// next LF, after which accumulation resumes normally.
type Lines struct {
	buf        []byte
	discarding bool
	overflows  uint32
}

// NewLines allocates the line buffer once; max <= 0 selects DefaultMaxLine.
func NewLines(max int) *Lines {
	if max <= 0 {
		max = DefaultMaxLine
	}
	return &Lines{buf: make([]byte, 0, max)}
}

// Feed consumes p and calls fn for every completed, non-empty line (LF
// stripped). The slice passed to fn is only valid for the duration of the
// call.
func (l *Lines) Feed(p []byte, fn func(line []byte)) {
	for _, b := range p {
		switch b {
		case '\n':
			if l.discarding {
				l.discarding = false
				continue
			}
			if len(l.buf) > 0 {
				fn(l.buf)
			}
			l.buf = l.buf[:0]
		case '\r':
		default:
			if l.discarding {
				continue
			}
			if len(l.buf) == cap(l.buf) {
				l.buf = l.buf[:0]
				l.discarding = true
				l.overflows++
				continue
			}
			l.buf = append(l.buf, b)
		}
	}
}

// Overflows reports how many lines were discarded for length.
func (l *Lines) Overflows() uint32 { return l.overflows }

// Pending reports bytes of the current, unterminated line.
func (l *Lines) Pending() int { return len(l.buf) }

// Reset drops any partial line.
func (l *Lines) Reset() {
	l.buf = l.buf[:0]
	l.discarding = false
}
