// Package wstr converts UTF-8 device names into the NUL-terminated
// UTF-16 buffers expected by wide-character consumers.
//
// The decoder is deliberately strict: overlong encodings, UTF-16
// surrogate halves, the 0xFFFE/0xFFFF non-characters and the obsolete
// five/six octet forms are all rejected. Rejection never aborts a
// transcode; the offending sequence is replaced with '?' and decoding
// resynchronizes at the next plausible codepoint start.
package wstr

// Bogus is returned by NextCodePoint when the bytes at the cursor do
// not form a well-formed codepoint.
const Bogus uint32 = 0xFFFFFFFF

// Substituted into the output wherever a malformed sequence was found.
const replacement uint32 = '?'

// byteAt reads src as if it were a NUL-terminated buffer: positions
// past the end of the slice read as 0x00.
func byteAt(src []byte, i int) uint32 {
	if i >= len(src) {
		return 0
	}
	return uint32(src[i])
}

// NextCodePoint decodes one codepoint beginning at src[pos] and
// returns it along with the cursor position of the next codepoint.
// A return of 0 means the terminator (or end of slice) was reached
// and the cursor did not move. A return of Bogus means the sequence
// was malformed; the cursor still advances so the remainder of the
// buffer can be decoded.
//
// The skip counts on the failure paths are load-bearing: callers rely
// on them to resynchronize, and the tests pin every one of them.
func NextCodePoint(src []byte, pos int) (uint32, int) {
	octet := byteAt(src, pos)

	switch {
	case octet == 0:
		// NUL terminator, end of string.
		return 0, pos

	case octet < 128:
		return octet, pos + 1

	case octet < 192:
		// A lone continuation byte (10xxxxxx). Each one is flagged
		// individually instead of resyncing to the next valid start.
		return Bogus, pos + 1

	case octet < 224: // two octets
		octet2 := byteAt(src, pos+1)
		if octet2&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		cp := (octet-0xC0)<<6 | (octet2 - 0x80)
		if cp >= 0x80 && cp <= 0x7FF {
			return cp, pos + 2
		}
		// Overlong encoding.
		return Bogus, pos + 2

	case octet < 240: // three octets
		octet2 := byteAt(src, pos+1)
		if octet2&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		octet3 := byteAt(src, pos+2)
		if octet3&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		cp := (octet-0xE0)<<12 | (octet2-0x80)<<6 | (octet3 - 0x80)

		// The seven UTF-16 surrogate halves that must never appear
		// as UTF-8-encoded codepoints.
		switch cp {
		case 0xD800, 0xDB7F, 0xDB80, 0xDBFF, 0xDC00, 0xDF80, 0xDFFF:
			return Bogus, pos + 3
		}

		// 0xFFFE and 0xFFFF are illegal too, so the range stops at 0xFFFD.
		if cp >= 0x800 && cp <= 0xFFFD {
			return cp, pos + 3
		}
		return Bogus, pos + 3

	case octet < 248: // four octets
		octet2 := byteAt(src, pos+1)
		if octet2&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		octet3 := byteAt(src, pos+2)
		if octet3&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		octet4 := byteAt(src, pos+3)
		if octet4&0xC0 != 0x80 {
			return Bogus, pos + 1
		}
		cp := (octet-0xF0)<<18 | (octet2-0x80)<<12 | (octet3-0x80)<<6 | (octet4 - 0x80)
		if cp >= 0x10000 && cp <= 0x10FFFF {
			return cp, pos + 4
		}
		return Bogus, pos + 4

	case octet < 252: // five octets
		// Five and six octet sequences are unconditionally illegal,
		// but still parsed so the cursor moves ahead the right number
		// of bytes instead of desynchronizing the rest of the buffer.
		for i := 1; i <= 4; i++ {
			if byteAt(src, pos+i)&0xC0 != 0x80 {
				return Bogus, pos + 1
			}
		}
		return Bogus, pos + 5

	default: // six octets
		for i := 1; i <= 5; i++ {
			if byteAt(src, pos+i)&0xC0 != 0x80 {
				return Bogus, pos + 1
			}
		}
		return Bogus, pos + 7
	}
}

// UTF8ToUTF16 transcodes src into dst as UTF-16 units and always
// leaves dst NUL terminated. Capacity is len(dst) in 16-bit units,
// terminator included.
//
// Malformed sequences become '?'. Codepoints above 0xFFFF are emitted
// as a surrogate pair only when two units remain; otherwise the
// transcode stops rather than emit a dangling high surrogate. When
// dst runs out of room the result is silently truncated, never an
// error: downstream display code depends on always receiving a
// terminated string.
func UTF8ToUTF16(src []byte, dst []uint16) {
	if len(dst) == 0 {
		return
	}

	room := len(dst) - 1 // reserve the terminator up front
	w := 0
	pos := 0
	for room >= 1 {
		cp, next := NextCodePoint(src, pos)
		pos = next
		if cp == 0 {
			break
		}
		if cp == Bogus {
			cp = replacement
		}

		if cp > 0xFFFF { // encode as surrogate pair
			if room < 2 {
				// Not enough room for the pair, stop now.
				break
			}
			cp -= 0x10000
			dst[w] = 0xD800 + uint16((cp>>10)&0x3FF)
			w++
			room--
			cp = 0xDC00 + (cp & 0x3FF)
		}

		dst[w] = uint16(cp)
		w++
		room--
	}
	dst[w] = 0
}
