package mouse

const escByte = 0x1b

// maxSeqLen bounds a pending report; longer input is not a mouse report.
const maxSeqLen = 32

var sgrPrefix = []byte{escByte, '[', '<'}

// Parse decodes one SGR report at the start of b ("ESC [ < cb ; x ; y M|m").
// n is the number of bytes consumed. needMore reports that b is a valid but
// truncated prefix of a report.
func Parse(b []byte) (ev Event, n int, needMore, ok bool) {
	for i := 0; i < len(sgrPrefix); i++ {
		if i >= len(b) {
			return Event{}, 0, true, false
		}
		if b[i] != sgrPrefix[i] {
			return Event{}, 0, false, false
		}
	}
	i := len(sgrPrefix)

	var vals [3]int
	for k := 0; k < 3; k++ {
		var v int
		var more, good bool
		i, v, more, good = scanUint(b, i)
		if more {
			return Event{}, 0, true, false
		}
		if !good {
			return Event{}, 0, false, false
		}
		vals[k] = v
		if i >= len(b) {
			return Event{}, 0, true, false
		}
		want := byte(';')
		if k == 2 {
			switch b[i] {
			case 'M', 'm':
				if vals[1] < 1 || vals[2] < 1 {
					return Event{}, 0, false, false
				}
				return decode(vals[0], vals[1], vals[2], b[i] == 'm'), i + 1, false, true
			default:
				return Event{}, 0, false, false
			}
		}
		if b[i] != want {
			return Event{}, 0, false, false
		}
		i++
	}
	return Event{}, 0, false, false
}

// ParseString is Parse for a complete report held in s.
func ParseString(s string) (Event, bool) {
	ev, n, _, ok := Parse([]byte(s))
	return ev, ok && n == len(s)
}

func scanUint(b []byte, start int) (end, val int, needMore, ok bool) {
	i := start
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		if i-start >= 6 {
			return start, 0, false, false
		}
		val = val*10 + int(b[i]-'0')
		i++
	}
	if i == start {
		return start, 0, i >= len(b), false
	}
	if i >= len(b) {
		return i, val, true, false
	}
	return i, val, false, true
}
