package source

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreLayer is one directory's compiled .gitignore, or a nil parser if
// that directory has none (or it failed to parse).
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// loadIgnoreLayer loads and compiles the .gitignore in dir, if any.
func loadIgnoreLayer(dir string) ignoreLayer {
	var path string
	if len(dir) > 0 && dir[len(dir)-1] == '/' {
		path = dir + ".gitignore"
	} else {
		path = dir + "/.gitignore"
	}
	parser, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return ignoreLayer{dir: dir, parser: nil}
	}
	return ignoreLayer{dir: dir, parser: parser}
}

// isIgnoredByLayers reports whether fullPath is excluded by any gitignore
// layer inherited from its ancestor directories.
func isIgnoredByLayers(layers []ignoreLayer, fullPath string, isDir bool) bool {
	for _, layer := range layers {
		if layer.parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		checkPath := rel
		if isDir {
			checkPath = rel + "/"
		}
		if layer.parser.MatchesPath(checkPath) {
			return true
		}
	}
	return false
}
