package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileDataSource_OpenAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds := newFileDataSource(path)
	if ds.Identifier() != path {
		t.Errorf("Identifier() = %q, want %q", ds.Identifier(), path)
	}

	s, err := ds.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Size() != 11 {
		t.Errorf("Size() = %d, want 11", s.Size())
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Errorf("ReadAll = %q", got)
	}
}

func TestFileDataSource_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := newFileDataSource(path).Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Size() != 0 {
		t.Errorf("Size() = %d, want 0", s.Size())
	}
}

func TestFileDataSource_Seek(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := newFileDataSource(path).Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Seek(5, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 3)
	if _, err := s.Read(buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "567" {
		t.Errorf("Read after Seek = %q, want 567", buf)
	}
}

func TestFileDataSource_OpenMissingFile(t *testing.T) {
	_, err := newFileDataSource("/nonexistent/gosearch/file.txt").Open()
	if err == nil {
		t.Error("expected error opening a missing file")
	}
}

func TestFileDataSource_LargeFileTakesMmapPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	data := make([]byte, mmapThreshold+1024)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := newFileDataSource(path).Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", s.Size(), len(data))
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Errorf("ReadAll len = %d, want %d", len(got), len(data))
	}
}
