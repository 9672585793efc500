package hierarchy

// Field is one hierarchy assignment derived from the folder path.
type Field struct {
	Name  string
	Value string
}

// DeriveIndexType returns the index type cl's note must carry, IndexNone
// for content notes.
func DeriveIndexType(cl Classification) IndexType {
	if !cl.IsIndex {
		return IndexNone
	}
	return TypeForDepth(cl.Depth)
}

// MaxLevel reports how many hierarchy fields cl's note may carry. Index and
// content notes alike are capped by folder depth, module at the most.
func MaxLevel(cl Classification) int {
	if cl.Depth > MaxDepth {
		return MaxDepth
	}
	return cl.Depth
}

// CanonicalFields derives the hierarchy assignments for cl, program first.
// Folder names become field values verbatim, no casing or spacing applied.
func CanonicalFields(cl Classification) []Field {
	n := MaxLevel(cl)
	out := make([]Field, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Field{Name: FieldNames[i], Value: cl.Segments[i]})
	}
	return out
}
