package source

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// WalkOptions configures the directory traversal that produces Sources.
type WalkOptions struct {
	Recursive bool
	NoIgnore  bool // skip .gitignore processing
	Hidden    bool // include hidden files and directories
}

// Walk returns a Sources sequence over the regular files reachable from
// roots. Traversal uses raw getdents64 for speed and honors .gitignore
// files unless NoIgnore is set.
//
// In non-recursive mode, a root that cannot be stat'd is reported as a
// yielded (nil, err) pair — the caller asked to search a path that doesn't
// exist or isn't accessible, which makes the whole enumeration
// untrustworthy. In recursive mode every root is traversed as a directory,
// and a root that cannot be opened as one is logged and skipped just like
// a subdirectory: errors reading any directory in the tree (permission
// denied, a removed directory) are logged and that subtree is skipped;
// they don't invalidate sources already found elsewhere.
func Walk(roots []string, opts WalkOptions) Sources {
	return func(yield func(DataSource, error) bool) {
		if !opts.Recursive {
			for _, root := range roots {
				var stat unix.Stat_t
				if err := unix.Stat(root, &stat); err != nil {
					if !yield(nil, &WalkError{Path: root, Err: err}) {
						return
					}
					continue
				}
				if stat.Mode&unix.S_IFMT == unix.S_IFREG {
					if !yield(newFileDataSource(root), nil) {
						return
					}
				}
			}
			return
		}

		fileCh, errCh := startParallelWalk(roots, opts)
		for fileCh != nil || errCh != nil {
			select {
			case path, ok := <-fileCh:
				if !ok {
					fileCh = nil
					continue
				}
				if !yield(newFileDataSource(path), nil) {
					return
				}
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				log.Warn("walk", "error", err)
			}
		}
	}
}

// WalkError represents a failure to stat or traverse a path.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string { return "walk " + e.Path + ": " + e.Err.Error() }
func (e *WalkError) Unwrap() error { return e.Err }

// walkItem is a directory queued for traversal, carrying a snapshot of
// its ancestors' gitignore layers.
type walkItem struct {
	path    string
	ignores []ignoreLayer
}

// parallelWalker coordinates concurrent BFS directory traversal over a
// shared work queue.
type parallelWalker struct {
	fileCh   chan<- string
	errCh    chan<- error
	hidden   bool
	noIgnore bool

	mu      sync.Mutex
	queue   []walkItem
	pending int
	cond    *sync.Cond
	done    bool
}

func startParallelWalk(roots []string, opts WalkOptions) (<-chan string, <-chan error) {
	fileCh := make(chan string, 256)
	errCh := make(chan error, 16)

	go func() {
		defer close(fileCh)
		defer close(errCh)

		pw := &parallelWalker{fileCh: fileCh, errCh: errCh, hidden: opts.Hidden, noIgnore: opts.NoIgnore}
		pw.cond = sync.NewCond(&pw.mu)

		for _, root := range roots {
			var layers []ignoreLayer
			if !opts.NoIgnore {
				layers = []ignoreLayer{loadIgnoreLayer(root)}
			}
			pw.enqueue(walkItem{path: root, ignores: layers})
		}

		workers := runtime.NumCPU()
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pw.worker()
			}()
		}
		wg.Wait()
	}()

	return fileCh, errCh
}

func (pw *parallelWalker) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

func (pw *parallelWalker) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if pw.done && len(pw.queue) == 0 {
		pw.mu.Unlock()
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	pw.mu.Unlock()
	return item, true
}

func (pw *parallelWalker) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *parallelWalker) worker() {
	buf := make([]byte, 32*1024)
	var dirents []dirent
	for {
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		dirents = pw.processDir(item, buf, dirents)
		pw.finish()
	}
}

func (pw *parallelWalker) processDir(item walkItem, buf []byte, dirents []dirent) []dirent {
	fd, err := unix.Open(item.path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(item.path, unix.O_RDONLY|unix.O_DIRECTORY, 0)
		if err != nil {
			pw.errCh <- &WalkError{Path: item.path, Err: err}
			return dirents
		}
	}

	var subdirs []walkItem

	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			pw.errCh <- &WalkError{Path: item.path, Err: err}
			break
		}
		if n == 0 {
			break
		}

		dirents = parseDirents(buf, n, dirents)
		for _, entry := range dirents {
			fullPath := joinPath(item.path, entry.Name)
			pw.handleEntry(entry, fullPath, item.ignores, &subdirs)
		}
	}

	unix.Close(fd)

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
	return dirents
}

func (pw *parallelWalker) handleEntry(entry dirent, fullPath string, parentIgnores []ignoreLayer, subdirs *[]walkItem) {
	switch entry.Type {
	case dtDir:
		pw.handleDir(entry.Name, fullPath, parentIgnores, subdirs)
	case dtReg:
		pw.handleFile(entry.Name, fullPath, parentIgnores)
	case dtLnk:
		var stat unix.Stat_t
		if err := unix.Stat(fullPath, &stat); err != nil {
			return // silently skip broken symlinks
		}
		switch stat.Mode & unix.S_IFMT {
		case unix.S_IFREG:
			pw.handleFile(entry.Name, fullPath, parentIgnores)
		case unix.S_IFDIR:
			pw.handleDir(entry.Name, fullPath, parentIgnores, subdirs)
		}
	default: // dtUnknown and any other value: fall back to stat
		var stat unix.Stat_t
		if err := unix.Stat(fullPath, &stat); err != nil {
			pw.errCh <- &WalkError{Path: fullPath, Err: err}
			return
		}
		switch stat.Mode & unix.S_IFMT {
		case unix.S_IFREG:
			pw.handleFile(entry.Name, fullPath, parentIgnores)
		case unix.S_IFDIR:
			pw.handleDir(entry.Name, fullPath, parentIgnores, subdirs)
		}
	}
}

func (pw *parallelWalker) handleDir(name, fullPath string, parentIgnores []ignoreLayer, subdirs *[]walkItem) {
	if skipDir(name, pw.hidden) {
		return
	}
	if parentIgnores != nil && isIgnoredByLayers(parentIgnores, fullPath, true) {
		return
	}
	var childIgnores []ignoreLayer
	if !pw.noIgnore {
		childIgnores = make([]ignoreLayer, len(parentIgnores)+1)
		copy(childIgnores, parentIgnores)
		childIgnores[len(parentIgnores)] = loadIgnoreLayer(fullPath)
	}
	*subdirs = append(*subdirs, walkItem{path: fullPath, ignores: childIgnores})
}

func (pw *parallelWalker) handleFile(name, fullPath string, parentIgnores []ignoreLayer) {
	if !pw.hidden && len(name) > 0 && name[0] == '.' {
		return
	}
	if parentIgnores != nil && isIgnoredByLayers(parentIgnores, fullPath, false) {
		return
	}
	pw.fileCh <- fullPath
}

// joinPath concatenates a directory and entry name with a single
// separator, avoiding filepath.Join's Clean/validation overhead since
// both inputs are already well-formed.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}

// skipDir reports whether a directory should never be descended into.
// VCS directories are always skipped; other hidden directories are
// skipped unless hidden is true.
func skipDir(name string, hidden bool) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	if !hidden && len(name) > 0 && name[0] == '.' {
		return true
	}
	return false
}
