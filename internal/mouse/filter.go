package mouse

import (
	"bytes"
	"io"
)

// Filter wraps the raw terminal input. It removes SGR mouse reports from
// the byte stream, hands each one to a callback, and passes every other
// byte through unchanged. A report split across reads is held back until
// it completes.
type Filter struct {
	r      io.Reader
	handle func(Event)

	tmp     []byte
	pending []byte
	out     []byte
	err     error
}

// NewFilter returns a filter reading from r. handle runs on the reading
// goroutine.
func NewFilter(r io.Reader, handle func(Event)) *Filter {
	return &Filter{r: r, handle: handle, tmp: make([]byte, 4096)}
}

func (f *Filter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(f.out) == 0 {
		if f.err != nil {
			if len(f.pending) == 0 {
				return 0, f.err
			}
			f.out = append(f.out, f.pending...)
			f.pending = nil
			break
		}
		n, err := f.r.Read(f.tmp)
		if n > 0 {
			f.pending = append(f.pending, f.tmp[:n]...)
			f.process()
		}
		if err != nil {
			f.err = err
		}
	}
	n := copy(p, f.out)
	f.out = f.out[n:]
	return n, nil
}

// process moves pending bytes to out, extracting complete reports.
func (f *Filter) process() {
	b := f.pending
	for len(b) > 0 {
		idx := bytes.IndexByte(b, escByte)
		if idx < 0 {
			f.out = append(f.out, b...)
			b = nil
			break
		}
		f.out = append(f.out, b[:idx]...)
		b = b[idx:]

		ev, n, needMore, ok := Parse(b)
		switch {
		case ok:
			if f.handle != nil {
				f.handle(ev)
			}
			b = b[n:]
		case needMore && len(b) < maxSeqLen && hasSGRStart(b):
			f.pending = append(f.pending[:0], b...)
			return
		default:
			f.out = append(f.out, b[0])
			b = b[1:]
		}
	}
	f.pending = f.pending[:0]
}

// hasSGRStart reports whether b begins with the full "ESC [ <" introducer.
// Shorter escape prefixes pass straight through so a lone Escape key is
// never delayed.
func hasSGRStart(b []byte) bool {
	return bytes.HasPrefix(b, sgrPrefix)
}
