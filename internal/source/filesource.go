package source

import (
	"fmt"
	"io"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// mmapThreshold is the file size at or above which materialize prefers
// memory-mapping the file over reading it into a pooled buffer.
const mmapThreshold = 1 << 20 // 1 MiB

// bufPool reuses read buffers across files to avoid a heap allocation
// per small file scanned.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// fileDataSource is a DataSource backed by a path on the local filesystem.
type fileDataSource struct {
	path string
}

func newFileDataSource(path string) DataSource {
	return &fileDataSource{path: path}
}

// NewFileDataSource returns a DataSource backed by the local file at path.
// Most callers obtain sources from Walk; this constructor is for tests and
// for CLI paths that name a single file directly.
func NewFileDataSource(path string) DataSource {
	return newFileDataSource(path)
}

func (f *fileDataSource) Identifier() string { return f.path }

// Open opens the file and fstats it, but does not read any content: Size
// is answered straight from the fstat result. The caller's size gate
// (internal/scanner's MaxFileSize check, run against Size before any
// Read) decides whether the file is worth materializing at all — mmap'ing
// or fully pread'ing an oversized file the gate is about to reject would
// defeat its bounded-memory purpose. Materialization happens lazily, on
// the first Read or Seek.
func (f *fileDataSource) Open() (SourceStream, error) {
	fd, err := openFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat %s: %w", f.path, err)
	}

	if stat.Size == 0 {
		unix.Close(fd)
		return &memStream{}, nil
	}
	return &lazyFileStream{fd: fd, size: stat.Size}, nil
}

// openFile opens path read-only, preferring O_NOATIME and falling back
// without it when the caller lacks permission to use it.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	return fd, err
}

// lazyFileStream wraps an already fstat'd fd, deferring the actual
// mmap-or-pread materialization until the first Read or Seek. Size is
// answered from the fstat size alone, so a caller that checks Size
// against a bound and walks away without reading never pays for the
// read it didn't need.
type lazyFileStream struct {
	fd   int
	size int64

	once sync.Once
	mem  *memStream
	err  error
}

func (s *lazyFileStream) materialize() error {
	s.once.Do(func() {
		if s.size >= mmapThreshold {
			s.mem, s.err = readMmap(s.fd, s.size)
		} else {
			s.mem, s.err = readBuffered(s.fd, s.size)
		}
	})
	return s.err
}

func (s *lazyFileStream) Read(p []byte) (int, error) {
	if err := s.materialize(); err != nil {
		return 0, err
	}
	return s.mem.Read(p)
}

func (s *lazyFileStream) Seek(offset int64, whence int) (int64, error) {
	if err := s.materialize(); err != nil {
		return 0, err
	}
	return s.mem.Seek(offset, whence)
}

func (s *lazyFileStream) Close() error {
	if s.mem != nil {
		return s.mem.Close()
	}
	return unix.Close(s.fd)
}

func (s *lazyFileStream) Size() int64 { return s.size }

// readMmap memory-maps an already-open fd of known size, hinting the
// kernel for sequential access, and falls back to a buffered read if the
// mapping itself fails. It takes ownership of fd.
func readMmap(fd int, size int64) (*memStream, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_POPULATE)
	if err != nil {
		return readBuffered(fd, size)
	}
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &memStream{
		data: data,
		closer: func() error {
			unix.Madvise(data, unix.MADV_DONTNEED)
			err := syscall.Munmap(data)
			unix.Close(fd)
			return err
		},
	}, nil
}

// readBuffered reads a file from an already-open fd into a pooled
// buffer via pread, taking ownership of fd.
func readBuffered(fd int, size int64) (*memStream, error) {
	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if cap(buf) < int(size) {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}

	var total int
	for total < int(size) {
		n, err := unix.Pread(fd, buf[total:], int64(total))
		if err != nil {
			unix.Close(fd)
			*bp = buf
			bufPool.Put(bp)
			return nil, err
		}
		if n == 0 {
			break
		}
		total += n
	}
	unix.Close(fd)

	data := buf[:total]
	return &memStream{
		data: data,
		closer: func() error {
			*bp = buf
			bufPool.Put(bp)
			return nil
		},
	}, nil
}

// memStream adapts an in-memory byte slice (read whole via mmap or
// buffered pread) to io.ReadSeekCloser plus Size.
type memStream struct {
	data   []byte
	pos    int
	closer func() error
}

func (s *memStream) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *memStream) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(s.pos) + offset
	case io.SeekEnd:
		newPos = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("memStream: invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("memStream: negative position")
	}
	s.pos = int(newPos)
	return newPos, nil
}

func (s *memStream) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

func (s *memStream) Size() int64 { return int64(len(s.data)) }
