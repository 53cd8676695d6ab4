package link

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"costume-go/errcode"
	"costume-go/serial"
)

func TestChecksumKnownVector(t *testing.T) {
	// CRC-8/SMBUS check value.
	if got := Checksum([]byte("123456789")); got != 0xF4 {
		t.Fatalf("Checksum = %#02x want 0xF4", got)
	}
	if Checksum(nil) != 0 {
		t.Fatal("empty checksum not zero")
	}
}

func TestEncodeWireForm(t *testing.T) {
	b, err := Encode(Envelope{Direction: ToDevice, Topic: "fan/set", Payload: "42"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.HasPrefix(s, ">fan/set\t42*") || !strings.HasSuffix(s, "\n") || len(s) != len(">fan/set\t42*")+3 {
		t.Fatalf("unexpected wire form %q", s)
	}
	if sum := Checksum([]byte(">fan/set\t42")); s[len(s)-3:len(s)-1] != string(hex2(sum)) {
		t.Fatalf("checksum digits %q", s[len(s)-3:])
	}
}

func TestEncodeRejects(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
	}{
		{"no marker", Envelope{Topic: "a", Payload: "b"}},
		{"empty topic", Envelope{Direction: ToHost}},
		{"tab in topic", Envelope{Direction: ToHost, Topic: "a\tb"}},
		{"lf in payload", Envelope{Direction: ToHost, Topic: "a", Payload: "x\ny"}},
		{"cr in payload", Envelope{Direction: ToHost, Topic: "a", Payload: "x\r"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Encode(c.env); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRoundTripASCII(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		e := Envelope{
			Direction: []Direction{ToDevice, ToHost}[i%2],
			Topic:     randASCII(rng, 1+rng.Intn(24), "\t\r\n"),
			Payload:   randASCII(rng, rng.Intn(80), "\r\n"),
		}
		b, err := Encode(e)
		if err != nil {
			t.Fatalf("encode %+v: %v", e, err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("decode %q: %v", b, err)
		}
		if got != e {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, e)
		}
	}
}

func TestEverySingleBitFlipIsRejected(t *testing.T) {
	envs := []Envelope{
		{Direction: ToDevice, Topic: "fan/set", Payload: "42"},
		{Direction: ToHost, Topic: "menu/status/face", Payload: `{"value":1,"label":"Happy"}`},
		{Direction: ToDevice, Topic: "notify", Payload: "a*b\tc*"},
		{Direction: ToDevice, Topic: "x", Payload: ""},
	}
	for _, e := range envs {
		frame, err := Encode(e)
		if err != nil {
			t.Fatal(err)
		}
		for i := range frame {
			for bit := 0; bit < 8; bit++ {
				mut := append([]byte(nil), frame...)
				mut[i] ^= 1 << bit
				_, err := Decode(mut)
				if err == nil {
					t.Fatalf("flip byte %d bit %d of %q accepted", i, bit, frame)
				}
				if !errors.Is(err, errcode.FrameError) {
					t.Fatalf("flip byte %d bit %d: error %v is not a frame error", i, bit, err)
				}
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", ErrMissingMarker},
		{"bad marker", "#ping\t*39\n", ErrMissingMarker},
		{"no delimiter", ">ping\t\n", ErrMissingDelimiter},
		{"short hex", ">ping\t*3\n", ErrMalformed},
		{"lowercase hex", ">sync\t*ac\n", ErrMalformed},
		{"embedded lf", ">pi\nng\t*39\n", ErrMalformed},
		{"no separator", ">garbage*17\n", ErrMalformed},
		{"bad checksum", ">ping\t*00\n", ErrChecksum},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode([]byte(c.line))
			if err != c.want {
				t.Fatalf("err = %v want %v", err, c.want)
			}
		})
	}
	if _, err := Decode([]byte(">sync\t*AC\n")); err != nil {
		t.Fatalf("uppercase form rejected: %v", err)
	}
}

func TestDecodeAcceptsCRLF(t *testing.T) {
	b, _ := Encode(Envelope{Direction: ToDevice, Topic: "ping"})
	crlf := append(b[:len(b)-1:len(b)-1], '\r', '\n')
	if _, err := Decode(crlf); err != nil {
		t.Fatalf("CRLF rejected: %v", err)
	}
}

func TestLinesSplitsAcrossFeeds(t *testing.T) {
	l := NewLines(32)
	var got []string
	collect := func(line []byte) { got = append(got, string(line)) }

	l.Feed([]byte("HUEF=1"), collect)
	l.Feed([]byte("0\r\nFACE=2\n\nOK SA"), collect)
	l.Feed([]byte("VED\n"), collect)

	want := []string{"HUEF=10", "FACE=2", "OK SAVED"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLinesOverflowResyncs(t *testing.T) {
	l := NewLines(8)
	var got []string
	collect := func(line []byte) { got = append(got, string(line)) }

	l.Feed([]byte(strings.Repeat("x", 40)), collect)
	if l.Pending() != 0 || l.Overflows() != 1 {
		t.Fatalf("pending=%d overflows=%d", l.Pending(), l.Overflows())
	}
	// Tail of the oversized line is dropped up to its LF; the next line survives.
	l.Feed([]byte("yyy\nFACE=1\n"), collect)
	if len(got) != 1 || got[0] != "FACE=1" {
		t.Fatalf("got %q", got)
	}
	if l.Overflows() != 1 {
		t.Fatalf("overflows = %d", l.Overflows())
	}
}

func TestHostLinkPollAndPublish(t *testing.T) {
	port := serial.NewMem()
	h := NewHostLink(port, 64)

	good, _ := Encode(Envelope{Direction: ToDevice, Topic: "fan/set", Payload: "42"})
	echo, _ := Encode(Envelope{Direction: ToHost, Topic: "fan/status", Payload: "{}"})
	port.Feed(good)
	port.FeedString(">garbage*00\n")
	port.Feed(echo)
	port.FeedString(strings.Repeat("z", 100) + "\n")
	port.Feed(good)

	var got []Envelope
	h.Poll(func(e Envelope) { got = append(got, e) })

	if len(got) != 2 || got[0].Topic != "fan/set" || got[0].Payload != "42" {
		t.Fatalf("got %+v", got)
	}
	st := h.Stats()
	if st.Frames != 2 || st.FrameErrors != 1 || st.WrongDirection != 1 || st.Overflows != 1 {
		t.Fatalf("stats %+v", st)
	}
	if !strings.Contains(st.LastError, "frame_error") || h.LastError() == nil {
		t.Fatalf("last error %q", st.LastError)
	}

	if err := h.Publish("pong", ""); err != nil {
		t.Fatal(err)
	}
	out := port.TakeOutput()
	env, err := Decode(out)
	if err != nil || env.Direction != ToHost || env.Topic != "pong" {
		t.Fatalf("published %q: %+v %v", out, env, err)
	}
}

// ---- helpers ----

func randASCII(rng *rand.Rand, n int, exclude string) string {
	var b strings.Builder
	for b.Len() < n {
		c := byte(rng.Intn(128))
		if strings.IndexByte(exclude, c) >= 0 {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hex2(v uint8) []byte {
	const d = "0123456789ABCDEF"
	return []byte{d[v>>4], d[v&0xF]}
}
