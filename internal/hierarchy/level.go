// Package hierarchy maps a note's position in the vault folder tree onto
// the metadata it must carry: the program/course/class/module fields and,
// for index notes, the index-type marker.
package hierarchy

import "strings"

// IndexType identifies which curriculum level an index note describes.
// Content notes carry no index type.
type IndexType string

const (
	IndexNone    IndexType = ""
	IndexMain    IndexType = "main"
	IndexProgram IndexType = "program"
	IndexCourse  IndexType = "course"
	IndexClass   IndexType = "class"
	IndexModule  IndexType = "module"
)

// Frontmatter keys owned by the reconciler. Everything else in a note's
// frontmatter is passthrough.
const (
	FieldProgram   = "program"
	FieldCourse    = "course"
	FieldClass     = "class"
	FieldModule    = "module"
	FieldIndexType = "index-type"
)

// MaxDepth is the deepest folder level with its own hierarchy field.
// Anything nested further keeps module-level metadata.
const MaxDepth = 4

// FieldNames lists the hierarchy fields in level order, program first.
var FieldNames = [MaxDepth]string{FieldProgram, FieldCourse, FieldClass, FieldModule}

var typeForDepth = [MaxDepth + 1]IndexType{IndexMain, IndexProgram, IndexCourse, IndexClass, IndexModule}

var levelForType = map[IndexType]int{
	IndexMain:    0,
	IndexProgram: 1,
	IndexCourse:  2,
	IndexClass:   3,
	IndexModule:  4,
}

// TypeForDepth returns the index type an index note at the given folder
// depth carries. Depths beyond module stay module.
func TypeForDepth(depth int) IndexType {
	if depth < 0 {
		depth = 0
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	return typeForDepth[depth]
}

// ParseIndexType normalizes a frontmatter value into a known index type.
func ParseIndexType(s string) (IndexType, bool) {
	t := IndexType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := levelForType[t]
	return t, ok
}

// Level returns the hierarchy level the type sits at, main 0 through
// module 4. IndexNone and unknown types report -1.
func (t IndexType) Level() int {
	if l, ok := levelForType[t]; ok {
		return l
	}
	return -1
}
