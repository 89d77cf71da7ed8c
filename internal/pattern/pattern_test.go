package pattern

import (
	"reflect"
	"testing"
)

func TestNew_SelectsBoyerMooreForSingleLiteral(t *testing.T) {
	p, err := New([]string{"needle"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*boyerMoorePattern); !ok {
		t.Errorf("New() = %T, want *boyerMoorePattern", p)
	}
}

func TestNew_SelectsAhoCorasickForMultipleLiterals(t *testing.T) {
	p, err := New([]string{"needle", "haystack"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*ahoCorasickPattern); !ok {
		t.Errorf("New() = %T, want *ahoCorasickPattern", p)
	}
}

func TestNew_SelectsRegexForMetacharacters(t *testing.T) {
	p, err := New([]string{`\d+`}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*regexPattern); !ok {
		t.Errorf("New() = %T, want *regexPattern", p)
	}
}

func TestNew_FixedStringsForcesLiteralEngineEvenWithMetacharacters(t *testing.T) {
	p, err := New([]string{`a.b`}, Options{FixedStrings: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*boyerMoorePattern); !ok {
		t.Errorf("New() = %T, want *boyerMoorePattern", p)
	}
	locs := p.FindAllIndex([]byte("xa.by"))
	if !reflect.DeepEqual(locs, [][2]int{{1, 4}}) {
		t.Errorf("FindAllIndex = %v, want [[1 4]] (literal a.b, not regex)", locs)
	}
}

func TestNew_EmptyPatternsErrors(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Error("expected error for empty pattern list")
	}
}

func TestBoyerMoore_FindAllIndex(t *testing.T) {
	p := newBoyerMoore("cat", false)
	locs := p.FindAllIndex([]byte("cat scatter cat"))
	want := [][2]int{{0, 3}, {5, 8}, {12, 15}}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("FindAllIndex = %v, want %v", locs, want)
	}
}

func TestBoyerMoore_IgnoreCase(t *testing.T) {
	p := newBoyerMoore("cat", true)
	locs := p.FindAllIndex([]byte("CAT cat Cat"))
	if len(locs) != 3 {
		t.Errorf("FindAllIndex found %d matches, want 3", len(locs))
	}
}

func TestAhoCorasick_FindAllIndex(t *testing.T) {
	p := newAhoCorasick([]string{"cat", "dog"}, false)
	locs := p.FindAllIndex([]byte("a cat and a dog"))
	want := [][2]int{{2, 5}, {12, 15}}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("FindAllIndex = %v, want %v", locs, want)
	}
}

func TestAhoCorasick_OverlappingPatterns(t *testing.T) {
	p := newAhoCorasick([]string{"he", "she", "his", "hers"}, false)
	locs := p.FindAllIndex([]byte("ushers"))
	if len(locs) == 0 {
		t.Fatal("expected at least one match in \"ushers\"")
	}
}

func TestRegexPattern_FindAllIndex(t *testing.T) {
	p, err := newRegexPattern(`\d+`, false)
	if err != nil {
		t.Fatal(err)
	}
	locs := p.FindAllIndex([]byte("abc 123 def 456"))
	want := [][2]int{{4, 7}, {12, 15}}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("FindAllIndex = %v, want %v", locs, want)
	}
}

func TestRegexPattern_PrefilterRejectsNonMatchingLine(t *testing.T) {
	p, err := newRegexPattern(`needle\d+`, false)
	if err != nil {
		t.Fatal(err)
	}
	if !p.hasPrefilt {
		t.Fatal("expected a literal prefilter to be extracted from \"needle\\d+\"")
	}
	if locs := p.FindAllIndex([]byte("no match on this line")); locs != nil {
		t.Errorf("FindAllIndex = %v, want nil", locs)
	}
}

func TestRegexPattern_Clone(t *testing.T) {
	p, err := newRegexPattern(`\d+`, false)
	if err != nil {
		t.Fatal(err)
	}
	clone := p.Clone()
	locs := clone.FindAllIndex([]byte("42"))
	if !reflect.DeepEqual(locs, [][2]int{{0, 2}}) {
		t.Errorf("clone FindAllIndex = %v", locs)
	}
}

func TestIsLiteral(t *testing.T) {
	cases := map[string]bool{
		"hello":   true,
		"a.b":     false,
		"a[bc]":   false,
		"a|b":     false,
		"plain_1": true,
	}
	for pat, want := range cases {
		if got := isLiteral(pat); got != want {
			t.Errorf("isLiteral(%q) = %v, want %v", pat, got, want)
		}
	}
}

func TestExtractLiteral_TooShortIsRejected(t *testing.T) {
	if _, ok := extractLiteral(`a\d`, false); ok {
		t.Error("single-char literal should be below minPrefilterLen")
	}
}

func TestExtractLiteral_DotNLDisablesPrefilter(t *testing.T) {
	if _, ok := extractLiteral(`(?s)needle.*`, false); ok {
		t.Error("DotNL pattern should not yield a usable prefilter")
	}
}
