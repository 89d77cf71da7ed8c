package pattern

import (
	"bytes"
	"sort"
)

// acNode is a node in the Aho-Corasick automaton.
type acNode struct {
	children [256]*acNode
	fail     *acNode
	output   []int
}

// ahoCorasickPattern matches multiple fixed patterns in a single pass over
// each line using the Aho-Corasick algorithm.
type ahoCorasickPattern struct {
	root       *acNode
	patterns   [][]byte
	ignoreCase bool
}

func newAhoCorasick(literals []string, ignoreCase bool) *ahoCorasickPattern {
	m := &ahoCorasickPattern{root: &acNode{}, ignoreCase: ignoreCase}
	for i, lit := range literals {
		pat := []byte(lit)
		if ignoreCase {
			pat = bytes.ToLower(pat)
		}
		m.patterns = append(m.patterns, pat)
		m.addPattern(pat, i)
	}
	m.buildFailureLinks()
	return m
}

func (m *ahoCorasickPattern) addPattern(pat []byte, index int) {
	node := m.root
	for _, b := range pat {
		if node.children[b] == nil {
			node.children[b] = &acNode{}
		}
		node = node.children[b]
	}
	node.output = append(node.output, index)
}

func (m *ahoCorasickPattern) buildFailureLinks() {
	queue := make([]*acNode, 0, 256)
	for i := 0; i < 256; i++ {
		child := m.root.children[i]
		if child != nil {
			child.fail = m.root
			queue = append(queue, child)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := 0; i < 256; i++ {
			child := current.children[i]
			if child == nil {
				continue
			}
			queue = append(queue, child)

			fail := current.fail
			for fail != nil && fail.children[i] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
			} else {
				child.fail = fail.children[i]
			}

			if child.fail != nil && len(child.fail.output) > 0 {
				child.output = append(child.output, child.fail.output...)
			}
		}
	}
}

func toLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func (m *ahoCorasickPattern) FindAllIndex(line []byte) [][2]int {
	var locs [][2]int
	node := m.root

	for i, b := range line {
		if m.ignoreCase {
			b = toLowerByte(b)
		}
		for node != m.root && node.children[b] == nil {
			node = node.fail
		}
		if node.children[b] != nil {
			node = node.children[b]
		}
		if len(node.output) > 0 {
			for _, pidx := range node.output {
				plen := len(m.patterns[pidx])
				start := i - plen + 1
				locs = append(locs, [2]int{start, start + plen})
			}
		}
	}

	// Keep the leftmost, then longest, match and drop any that overlap it.
	sort.Slice(locs, func(a, b int) bool {
		return locs[a][0] < locs[b][0] || (locs[a][0] == locs[b][0] && locs[a][1] > locs[b][1])
	})
	var kept [][2]int
	for _, l := range locs {
		if len(kept) == 0 || l[0] >= kept[len(kept)-1][1] {
			kept = append(kept, l)
		}
	}
	return kept
}

func (m *ahoCorasickPattern) Clone() Pattern {
	// The automaton is read-only once built; sharing it across
	// goroutines is safe, but each caller still gets its own handle.
	return &ahoCorasickPattern{root: m.root, patterns: m.patterns, ignoreCase: m.ignoreCase}
}

func (m *ahoCorasickPattern) Close() {}
