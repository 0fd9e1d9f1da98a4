package wstr

import (
	"testing"
	"unicode/utf16"
)

// wide decodes a NUL-terminated UTF-16 buffer back into a string.
func wide(units []uint16) string {
	end := 0
	for end < len(units) && units[end] != 0 {
		end++
	}
	return string(utf16.Decode(units[:end]))
}

func TestNextCodePoint(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		cp   uint32
		next int
	}{
		{"terminator", []byte{0x00, 'A'}, 0, 0},
		{"end of slice", []byte{}, 0, 0},
		{"ascii", []byte("A"), 'A', 1},
		{"lone continuation", []byte{0x80, 'A'}, Bogus, 1},
		{"two octets", []byte{0xC3, 0xA9}, 0xE9, 2},
		{"two octets bad continuation", []byte{0xC3, 0x41}, Bogus, 1},
		{"two octets overlong", []byte{0xC0, 0x80}, Bogus, 2},
		{"two octets overlong high", []byte{0xC1, 0xBF}, Bogus, 2},
		{"two octets truncated", []byte{0xC3}, Bogus, 1},
		{"three octets", []byte{0xE2, 0x82, 0xAC}, 0x20AC, 3},
		{"three octets bad second", []byte{0xE2, 0x28, 0xA1}, Bogus, 1},
		{"three octets bad third", []byte{0xE2, 0x82, 0x28}, Bogus, 1},
		{"three octets overlong", []byte{0xE0, 0x80, 0xAF}, Bogus, 3},
		{"surrogate D800", []byte{0xED, 0xA0, 0x80}, Bogus, 3},
		{"surrogate DC00", []byte{0xED, 0xB0, 0x80}, Bogus, 3},
		{"surrogate DFFF", []byte{0xED, 0xBF, 0xBF}, Bogus, 3},
		{"non-character FFFE", []byte{0xEF, 0xBF, 0xBE}, Bogus, 3},
		{"non-character FFFF", []byte{0xEF, 0xBF, 0xBF}, Bogus, 3},
		{"replacement char FFFD ok", []byte{0xEF, 0xBF, 0xBD}, 0xFFFD, 3},
		{"four octets", []byte{0xF0, 0x9F, 0x8E, 0xB5}, 0x1F3B5, 4},
		{"four octets max", []byte{0xF4, 0x8F, 0xBF, 0xBF}, 0x10FFFF, 4},
		{"four octets overlong", []byte{0xF0, 0x80, 0x80, 0x80}, Bogus, 4},
		{"four octets out of range", []byte{0xF4, 0x90, 0x80, 0x80}, Bogus, 4},
		{"four octets bad fourth", []byte{0xF0, 0x9F, 0x8E, 0x41}, Bogus, 1},
		{"five octets", []byte{0xF8, 0x88, 0x80, 0x80, 0x80}, Bogus, 5},
		{"five octets bad continuation", []byte{0xF8, 0x41}, Bogus, 1},
		{"six octets", []byte{0xFC, 0x84, 0x80, 0x80, 0x80, 0x80, 'A', 'B'}, Bogus, 7},
		{"six octets bad continuation", []byte{0xFC, 0x41}, Bogus, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, next := NextCodePoint(tt.src, 0)
			if cp != tt.cp {
				t.Errorf("codepoint = %#x, want %#x", cp, tt.cp)
			}
			if next != tt.next {
				t.Errorf("cursor = %d, want %d", next, tt.next)
			}
		})
	}
}

func TestNextCodePointResynchronizes(t *testing.T) {
	// A bad continuation inside a three-octet sequence advances one
	// byte, so the bytes after it decode on their own.
	src := []byte{0xE2, 0x28, 0xA1, 0x21}
	var got []uint32
	pos := 0
	for {
		cp, next := NextCodePoint(src, pos)
		if cp == 0 {
			break
		}
		got = append(got, cp)
		pos = next
	}
	want := []uint32{Bogus, '(', Bogus, '!'}
	if len(got) != len(want) {
		t.Fatalf("decoded %d codepoints, want %d (%#x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codepoint %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestTranscodeASCIIRoundTrip(t *testing.T) {
	src := "Default Device"
	dst := make([]uint16, 64)
	UTF8ToUTF16([]byte(src), dst)

	for i, r := range src {
		if dst[i] != uint16(r) {
			t.Errorf("unit %d = %#x, want %#x", i, dst[i], uint16(r))
		}
	}
	if dst[len(src)] != 0 {
		t.Errorf("missing terminator after %d units", len(src))
	}
	if got := wide(dst); got != src {
		t.Errorf("round trip = %q, want %q", got, src)
	}
}

func TestTranscodeMultibyte(t *testing.T) {
	src := "café €" // two and three octet sequences
	dst := make([]uint16, 32)
	UTF8ToUTF16([]byte(src), dst)
	if got := wide(dst); got != src {
		t.Errorf("transcoded to %q, want %q", got, src)
	}
}

func TestTranscodeSurrogatePair(t *testing.T) {
	// U+1F3B5 must come out as exactly two units forming a valid pair.
	dst := make([]uint16, 8)
	UTF8ToUTF16([]byte("\U0001F3B5"), dst)

	if dst[0] < 0xD800 || dst[0] > 0xDBFF {
		t.Fatalf("unit 0 = %#x, want a high surrogate", dst[0])
	}
	if dst[1] < 0xDC00 || dst[1] > 0xDFFF {
		t.Fatalf("unit 1 = %#x, want a low surrogate", dst[1])
	}
	if dst[2] != 0 {
		t.Fatalf("unit 2 = %#x, want terminator", dst[2])
	}
	if r := utf16.DecodeRune(rune(dst[0]), rune(dst[1])); r != 0x1F3B5 {
		t.Errorf("pair decodes to %#x, want 0x1F3B5", r)
	}
}

func TestTranscodeTruncation(t *testing.T) {
	// Source needs 5 units ("abcd" + terminator); capacity 4 must
	// yield 3 data units plus the terminator and nothing past unit 3.
	backing := make([]uint16, 8)
	for i := range backing {
		backing[i] = 0xBEEF // canary
	}
	UTF8ToUTF16([]byte("abcd"), backing[:4])

	if got := wide(backing[:4]); got != "abc" {
		t.Errorf("truncated result = %q, want %q", got, "abc")
	}
	if backing[3] != 0 {
		t.Errorf("unit 3 = %#x, want terminator", backing[3])
	}
	for i := 4; i < len(backing); i++ {
		if backing[i] != 0xBEEF {
			t.Errorf("unit %d overwritten past capacity", i)
		}
	}
}

func TestTranscodeNeverSplitsSurrogatePair(t *testing.T) {
	// One data unit of room with a four-octet codepoint up next:
	// neither half of the pair may be emitted.
	dst := make([]uint16, 3)
	UTF8ToUTF16([]byte("a\U0001F3B5"), dst)

	if dst[0] != 'a' {
		t.Errorf("unit 0 = %#x, want 'a'", dst[0])
	}
	if dst[1] != 0 {
		t.Errorf("unit 1 = %#x, want terminator (pair must be dropped whole)", dst[1])
	}
}

func TestTranscodeSubstitutesBogus(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want string
	}{
		{"surrogate value", []byte{0xED, 0xA0, 0x80}, "?"},
		{"lone continuation", []byte{0x80, 'A'}, "?A"},
		{"overlong", []byte{0xC0, 0x80, 'x'}, "?x"},
		{"bad continuation resync", []byte{0xE2, 0x28, 0xA1, 0x21}, "?(?!"},
		{"five octets", []byte{0xF8, 0x88, 0x80, 0x80, 0x80, 'A'}, "?A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]uint16, 16)
			UTF8ToUTF16(tt.src, dst)
			if got := wide(dst); got != tt.want {
				t.Errorf("transcoded to %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscodeSixOctetSkip(t *testing.T) {
	// The six-octet path skips seven bytes, swallowing the byte that
	// follows the sequence. The count is pinned deliberately.
	src := []byte{0xFC, 0x84, 0x80, 0x80, 0x80, 0x80, 'A', 'B'}
	dst := make([]uint16, 16)
	UTF8ToUTF16(src, dst)
	if got := wide(dst); got != "?B" {
		t.Errorf("transcoded to %q, want %q", got, "?B")
	}
}

func TestTranscodeTinyDestinations(t *testing.T) {
	// Zero capacity is a no-op; capacity one holds only a terminator.
	UTF8ToUTF16([]byte("abc"), nil)

	dst := []uint16{0xBEEF}
	UTF8ToUTF16([]byte("abc"), dst)
	if dst[0] != 0 {
		t.Errorf("unit 0 = %#x, want terminator", dst[0])
	}
}
