package binaryheur

import "testing"

type stubClassifier struct {
	mime string
}

func (s stubClassifier) Classify(prefix []byte) string { return s.mime }
func (s stubClassifier) Close()                        {}

func TestIsBinary_EmptyPrefix(t *testing.T) {
	if IsBinary(nil, stubClassifier{mime: "application/octet-stream"}) {
		t.Error("empty prefix should never be binary")
	}
}

func TestIsBinary_NULRunFastPath(t *testing.T) {
	prefix := []byte{0x00, 0x00, 'A', 'B', 0x00, 0x00, 0x00}
	// Classifier would say text/plain, but the fast path should still win.
	if !IsBinary(prefix, stubClassifier{mime: "text/plain"}) {
		t.Error("two consecutive NULs with >2 total NULs should be classified binary")
	}
}

func TestIsBinary_SparseNULsFallsBackToClassifier(t *testing.T) {
	prefix := []byte{'a', 0x00, 'b', 0x00, 'c'} // NULs present but never consecutive
	if IsBinary(prefix, stubClassifier{mime: "text/plain"}) {
		t.Error("sparse non-consecutive NULs should defer to the classifier")
	}
	if !IsBinary(prefix, stubClassifier{mime: "application/octet-stream"}) {
		t.Error("non-text classifier result should be binary")
	}
}

func TestIsBinary_SingleConsecutivePairNotEnough(t *testing.T) {
	prefix := []byte{0x00, 0x00, 'a', 'b', 'c'} // exactly 2 NULs, consecutive
	if IsBinary(prefix, stubClassifier{mime: "text/plain"}) {
		t.Error("exactly 2 NULs should not trip the fast path; total must exceed 2")
	}
}

func TestIsBinary_TextClassifier(t *testing.T) {
	if IsBinary([]byte("hello world"), stubClassifier{mime: "text/plain; charset=utf-8"}) {
		t.Error("text/ MIME type should not be classified binary")
	}
}

func TestIsBinary_NonTextClassifier(t *testing.T) {
	if !IsBinary([]byte("\x89PNG\r\n\x1a\n"), stubClassifier{mime: "image/png"}) {
		t.Error("non-text/ MIME type should be classified binary")
	}
}

func TestNewMIMEClassifier_DetectsPNG(t *testing.T) {
	c := NewMIMEClassifier()
	defer c.Close()
	png := []byte("\x89PNG\r\n\x1a\n")
	if IsBinary(png, c) != true {
		t.Error("PNG signature should be classified binary via the real classifier")
	}
}

func TestNewMIMEClassifier_DetectsText(t *testing.T) {
	c := NewMIMEClassifier()
	defer c.Close()
	text := []byte("the quick brown fox\n")
	if IsBinary(text, c) {
		t.Error("plain text should not be classified binary via the real classifier")
	}
}
