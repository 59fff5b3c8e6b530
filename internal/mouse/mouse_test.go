package mouse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		in   string
		want Event
	}{
		{"\x1b[<0;10;5M", Event{Kind: Press, Button: ButtonLeft, X: 10, Y: 5}},
		{"\x1b[<0;10;5m", Event{Kind: Release, Button: ButtonLeft, X: 10, Y: 5}},
		{"\x1b[<2;1;1M", Event{Kind: Press, Button: ButtonRight, X: 1, Y: 1}},
		{"\x1b[<32;11;5M", Event{Kind: Drag, Button: ButtonLeft, X: 11, Y: 5}},
		{"\x1b[<35;3;4M", Event{Kind: Motion, Button: ButtonNone, X: 3, Y: 4}},
		{"\x1b[<64;40;12M", Event{Kind: WheelUp, Button: ButtonNone, X: 40, Y: 12}},
		{"\x1b[<65;40;12M", Event{Kind: WheelDown, Button: ButtonNone, X: 40, Y: 12}},
		{"\x1b[<20;300;200M", Event{Kind: Press, Button: ButtonLeft, X: 300, Y: 200, Shift: true, Ctrl: true}},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, ok := ParseString(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"\x1b[A", "\x1b[<0;0;5M", "\x1b[<a;1;1M", "\x1b[<0;1;1X", "\x1b[<0;1M"} {
		_, ok := ParseString(in)
		assert.False(t, ok, "%q", in)
	}
}

func TestParse_NeedMore(t *testing.T) {
	for _, in := range []string{"\x1b", "\x1b[", "\x1b[<", "\x1b[<0", "\x1b[<0;12", "\x1b[<0;12;7"} {
		_, _, needMore, ok := Parse([]byte(in))
		assert.False(t, ok, "%q", in)
		assert.True(t, needMore, "%q", in)
	}
}

func TestFilter_StripsReports(t *testing.T) {
	var got []Event
	f := NewFilter(strings.NewReader("a\x1b[<0;3;4Mb\x1b[A\x1b[<64;1;2Mc"), func(ev Event) { got = append(got, ev) })
	out, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "ab\x1b[Ac", string(out))
	require.Len(t, got, 2)
	assert.Equal(t, Press, got[0].Kind)
	assert.Equal(t, WheelUp, got[1].Kind)
}

func TestFilter_SplitAcrossReads(t *testing.T) {
	var got []Event
	r := io.MultiReader(strings.NewReader("x\x1b[<0;1"), strings.NewReader("0;20My"))
	f := NewFilter(r, func(ev Event) { got = append(got, ev) })
	out, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "xy", string(out))
	require.Len(t, got, 1)
	assert.Equal(t, Event{Kind: Press, X: 10, Y: 20}, got[0])
}

func TestFilter_LoneEscapePassesThrough(t *testing.T) {
	f := NewFilter(strings.NewReader("\x1b"), nil)
	buf := make([]byte, 8)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "\x1b", string(buf[:n]))
}

func TestFilter_TruncatedReportFlushedAtEOF(t *testing.T) {
	f := NewFilter(strings.NewReader("\x1b[<0;1"), func(Event) { t.Fatal("unexpected event") })
	out, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[<0;1", string(out))
}
