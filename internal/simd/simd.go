// Package simd provides fast byte-oriented search primitives used by
// internal/pattern's single-literal engine and by the RE2 engine's literal
// prefilter.
package simd

// IndexByte returns the index of the first occurrence of c in data, or -1 if not present.
func IndexByte(data []byte, c byte) int {
	for i, b := range data {
		if b == c {
			return i
		}
	}
	return -1
}

// LastIndexByte returns the index of the last occurrence of c in data, or -1 if not present.
func LastIndexByte(data []byte, c byte) int {
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] == c {
			return i
		}
	}
	return -1
}

// Count returns the number of occurrences of c in data.
func Count(data []byte, c byte) int {
	n := 0
	for _, b := range data {
		if b == c {
			n++
		}
	}
	return n
}

// ToLowerASCII lowercases ASCII bytes from src into dst. dst must be at
// least len(src) bytes. Non-ASCII bytes are copied unchanged.
func ToLowerASCII(dst, src []byte) {
	for i, b := range src {
		dst[i] = toLowerASCII(b)
	}
}

func toLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
