package hierarchy

import "github.com/starford/othala/internal/frontmatter"

// ChangeOp classifies a single reconciliation edit.
type ChangeOp string

const (
	OpAdd     ChangeOp = "add"
	OpCorrect ChangeOp = "correct"
	OpRemove  ChangeOp = "remove"
)

// Change records one field edit made while reconciling a note.
type Change struct {
	Field string   `json:"field"`
	Op    ChangeOp `json:"op"`
	Old   string   `json:"old,omitempty"`
	New   string   `json:"new,omitempty"`
}

// Result carries the reconciled frontmatter and what it took to get there.
// An empty Changes slice means the note was already canonical.
type Result struct {
	Fields    *frontmatter.Fields
	IndexType IndexType
	MaxLevel  int
	Changes   []Change
}

// Reconcile aligns ff's hierarchy fields with cl: missing fields are added,
// wrong or malformed ones overwritten, fields beyond the note's level
// removed, and index-type set or stripped. All other keys keep their values
// and order. ff itself is left untouched; reconciling the result again
// yields no changes.
func Reconcile(ff *frontmatter.Fields, cl Classification) Result {
	if ff == nil {
		ff = frontmatter.NewFields()
	}
	out := ff.Clone()
	res := Result{
		IndexType: DeriveIndexType(cl),
		MaxLevel:  MaxLevel(cl),
	}

	for _, fld := range CanonicalFields(cl) {
		old, present := out.Get(fld.Name)
		if !present {
			out.SetString(fld.Name, fld.Value)
			res.Changes = append(res.Changes, Change{Field: fld.Name, Op: OpAdd, New: fld.Value})
			continue
		}
		if s, scalar := out.Scalar(fld.Name); scalar && s == fld.Value {
			continue
		}
		out.SetString(fld.Name, fld.Value)
		res.Changes = append(res.Changes, Change{
			Field: fld.Name,
			Op:    OpCorrect,
			Old:   frontmatter.ValueString(old),
			New:   fld.Value,
		})
	}

	for i := res.MaxLevel; i < MaxDepth; i++ {
		name := FieldNames[i]
		old, present := out.Get(name)
		if !present {
			continue
		}
		out.Delete(name)
		res.Changes = append(res.Changes, Change{Field: name, Op: OpRemove, Old: frontmatter.ValueString(old)})
	}

	want := string(res.IndexType)
	old, present := out.Get(FieldIndexType)
	switch {
	case res.IndexType == IndexNone:
		if present {
			out.Delete(FieldIndexType)
			res.Changes = append(res.Changes, Change{Field: FieldIndexType, Op: OpRemove, Old: frontmatter.ValueString(old)})
		}
	case !present:
		out.SetString(FieldIndexType, want)
		res.Changes = append(res.Changes, Change{Field: FieldIndexType, Op: OpAdd, New: want})
	default:
		if s, scalar := out.Scalar(FieldIndexType); !scalar || s != want {
			out.SetString(FieldIndexType, want)
			res.Changes = append(res.Changes, Change{
				Field: FieldIndexType,
				Op:    OpCorrect,
				Old:   frontmatter.ValueString(old),
				New:   want,
			})
		}
	}

	res.Fields = out
	return res
}
