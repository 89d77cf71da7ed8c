package simd

import "bytes"

// Index returns the index of the first occurrence of pattern in data, or -1 if not present.
func Index(data, pattern []byte) int {
	return bytes.Index(data, pattern)
}

// IndexAll returns all byte offsets where pattern occurs in data.
// Non-overlapping matches only.
func IndexAll(data, pattern []byte) []int {
	plen := len(pattern)
	if plen == 0 || plen > len(data) {
		return nil
	}

	var offsets []int
	i := 0
	for {
		idx := bytes.Index(data[i:], pattern)
		if idx < 0 {
			break
		}
		offsets = append(offsets, i+idx)
		i += idx + plen
	}
	return offsets
}

// IndexCaseInsensitive returns the index of the first case-insensitive
// occurrence of pattern in data. patternLower must already be lowercased;
// only ASCII case folding is handled.
func IndexCaseInsensitive(data, patternLower []byte) int {
	plen := len(patternLower)
	if plen == 0 {
		return 0
	}
	limit := len(data) - plen
	for i := 0; i <= limit; i++ {
		if matchCaseInsensitive(data[i:i+plen], patternLower) {
			return i
		}
	}
	return -1
}

// IndexAllCaseInsensitive returns all byte offsets of case-insensitive,
// non-overlapping matches.
func IndexAllCaseInsensitive(data, patternLower []byte) []int {
	plen := len(patternLower)
	if plen == 0 || plen > len(data) {
		return nil
	}

	var offsets []int
	limit := len(data) - plen
	for i := 0; i <= limit; {
		if matchCaseInsensitive(data[i:i+plen], patternLower) {
			offsets = append(offsets, i)
			i += plen
			continue
		}
		i++
	}
	return offsets
}

func matchCaseInsensitive(data, patternLower []byte) bool {
	for i, b := range data {
		if toLowerASCII(b) != patternLower[i] {
			return false
		}
	}
	return true
}
