package scanner

import (
	"bufio"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// newLineScanner wraps r with byte-order-mark detection (UTF-8, UTF-16
// LE/BE, otherwise assumed UTF-8) and returns a bufio.Scanner that splits
// on LF, CRLF, or bare CR line endings.
//
// No third-party BOM/encoding library appears anywhere in the grounding
// corpus (golang.org/x/text is never imported), so this one substep uses
// the standard library's unicode/utf16 directly.
func newLineScanner(r io.Reader) *bufio.Scanner {
	decoded := stripBOMAndDecode(r)
	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(scanLinesAnyEnding)
	return sc
}

// stripBOMAndDecode peeks the stream's first bytes for a byte-order mark
// and, for UTF-16, wraps the reader with a transcoder that emits UTF-8.
// A UTF-8 BOM is simply discarded; no BOM falls through as UTF-8 as-is.
func stripBOMAndDecode(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(3)

	switch {
	case len(peek) >= 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF:
		br.Discard(3)
		return br
	case len(peek) >= 2 && peek[0] == 0xFF && peek[1] == 0xFE:
		br.Discard(2)
		return &utf16Reader{src: br, bigEndian: false}
	case len(peek) >= 2 && peek[0] == 0xFE && peek[1] == 0xFF:
		br.Discard(2)
		return &utf16Reader{src: br, bigEndian: true}
	default:
		return br
	}
}

// utf16Reader transcodes a UTF-16 byte stream (without its BOM) to UTF-8.
type utf16Reader struct {
	src       io.Reader
	bigEndian bool

	pending []byte // undecoded trailing bytes carried across Read calls
	out     []byte // decoded UTF-8 bytes not yet delivered
}

func (u *utf16Reader) Read(p []byte) (int, error) {
	for len(u.out) == 0 {
		buf := make([]byte, 4096)
		n, err := u.src.Read(buf)
		if n > 0 {
			u.decode(buf[:n])
		}
		if len(u.out) > 0 {
			break
		}
		if err != nil {
			if err == io.EOF && len(u.pending) > 0 {
				// Odd trailing byte: not a valid UTF-16 code unit, drop it.
				u.pending = nil
			}
			return 0, err
		}
	}

	n := copy(p, u.out)
	u.out = u.out[n:]
	return n, nil
}

func (u *utf16Reader) decode(chunk []byte) {
	data := append(u.pending, chunk...)
	u.pending = nil

	n := len(data) - len(data)%2
	units := make([]uint16, 0, n/2)
	for i := 0; i < n; i += 2 {
		if u.bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
		}
	}
	if n < len(data) {
		u.pending = append(u.pending, data[n:]...)
	}

	runes := utf16.Decode(units)
	buf := make([]byte, 0, len(runes)*utf8.UTFMax)
	var rb [utf8.UTFMax]byte
	for _, r := range runes {
		w := utf8.EncodeRune(rb[:], r)
		buf = append(buf, rb[:w]...)
	}
	u.out = append(u.out, buf...)
}

// scanLinesAnyEnding is a bufio.SplitFunc recognizing LF, CRLF, and bare
// CR line terminators, unlike bufio.ScanLines which only recognizes LF
// (optionally preceded by CR).
func scanLinesAnyEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// Might be the start of a CRLF split across reads; request more.
			return 0, nil, nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
