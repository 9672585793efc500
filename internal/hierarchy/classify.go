package hierarchy

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/othala/internal/apperr"
)

// DefaultRootIndex is the stem of the vault's top-level index note when the
// config does not name one.
const DefaultRootIndex = "index"

// Classifier fixes note paths against a single vault root.
type Classifier struct {
	root      string // absolute, cleaned
	rootName  string
	rootIndex string
}

// NewClassifier builds a classifier for the vault at root. rootIndex is the
// stem recognized as the vault's top index note, DefaultRootIndex when
// empty.
func NewClassifier(root, rootIndex string) (*Classifier, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: resolve vault root: %w", err)
	}
	abs = filepath.Clean(abs)
	if rootIndex == "" {
		rootIndex = DefaultRootIndex
	}
	return &Classifier{root: abs, rootName: filepath.Base(abs), rootIndex: rootIndex}, nil
}

// Root returns the absolute vault root the classifier was built with.
func (c *Classifier) Root() string {
	return c.root
}

// Classification is a note's place in the vault tree.
type Classification struct {
	RelPath  string   // vault-relative, forward slashes
	Segments []string // folder names between root and note
	Depth    int      // len(Segments)
	IsIndex  bool     // note named after its containing folder
}

// Classify locates p, absolute or vault-relative, inside the vault. Paths
// escaping the root fail with apperr.ErrOutsideVault, paths that name the
// root itself with apperr.ErrAmbiguousPath.
func (c *Classifier) Classify(p string) (Classification, error) {
	rel := p
	if filepath.IsAbs(p) {
		r, err := filepath.Rel(c.root, p)
		if err != nil {
			return Classification{}, fmt.Errorf("hierarchy: %s: %w", p, apperr.ErrOutsideVault)
		}
		rel = r
	}
	return c.ClassifyRel(rel)
}

// ClassifyRel locates a vault-relative path.
func (c *Classifier) ClassifyRel(rel string) (Classification, error) {
	clean := path.Clean(filepath.ToSlash(rel))
	if clean == "." || clean == "" {
		return Classification{}, fmt.Errorf("hierarchy: %q: %w", rel, apperr.ErrAmbiguousPath)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return Classification{}, fmt.Errorf("hierarchy: %q: %w", rel, apperr.ErrOutsideVault)
	}

	parts := strings.Split(clean, "/")
	file := parts[len(parts)-1]
	dirs := parts[:len(parts)-1]

	cl := Classification{
		RelPath:  clean,
		Segments: dirs,
		Depth:    len(dirs),
	}

	ext := path.Ext(file)
	if !strings.EqualFold(ext, ".md") {
		return cl, nil
	}
	stem := file[:len(file)-len(ext)]
	if cl.Depth == 0 {
		cl.IsIndex = strings.EqualFold(stem, c.rootIndex) || strings.EqualFold(stem, c.rootName)
	} else {
		cl.IsIndex = strings.EqualFold(stem, dirs[len(dirs)-1])
	}
	return cl, nil
}
