package model

import "sort"

// markBitset is a bitset over mark-type rank, used for O(1) exclusion
// checks instead of scanning an exclusion slice on every MarkSet.Add.
type markBitset []uint64

func newMarkBitset(count int) markBitset {
	return make(markBitset, (count+63)/64)
}

func (b markBitset) set(rank int) {
	b[rank/64] |= 1 << uint(rank%64)
}

func (b markBitset) has(rank int) bool {
	i := rank / 64
	if i >= len(b) {
		return false
	}
	return b[i]&(1<<uint(rank%64)) != 0
}

// MarkType is a type of annotation (emphasis, link, ...) that can be
// attached to inline content. Instances are created once per Schema.
type MarkType struct {
	Name   string
	Rank   int
	Schema *Schema
	Attrs  map[string]*AttributeSpec

	// Group lists the mark groups this type belongs to.
	Group string

	// Inclusive controls whether the mark stays active for text typed right
	// after the text it marked, as opposed to only within it.
	Inclusive bool

	excludes markBitset // bit set per excluded mark type's rank
}

// excludesWildcard is stored on a MarkType whose spec used "_".
const excludesWildcard = "_"

// ExcludesType reports whether adding a mark of this type to a set should
// remove an existing mark of type other.
func (mt *MarkType) ExcludesType(other *MarkType) bool {
	return mt.excludes.has(other.Rank)
}

// Create builds a Mark of this type from the given attrs, applying defaults
// and computed values and rejecting unknown/missing attributes.
func (mt *MarkType) Create(given Attrs) (*Mark, error) {
	attrs, err := computeAttrs(mt.Attrs, given)
	if err != nil {
		return nil, err
	}
	return &Mark{Type: mt, Attrs: attrs}, nil
}

// IsInSet returns the mark of this type in set, or nil if there is none.
func (mt *MarkType) IsInSet(set MarkSet) *Mark {
	for _, m := range set {
		if m.Type == mt {
			return m
		}
	}
	return nil
}

// Mark is an instance of a MarkType with concrete attributes.
type Mark struct {
	Type  *MarkType
	Attrs Attrs
}

// Eq reports structural equality: same type and same attributes.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	if other == nil {
		return false
	}
	return m.Type == other.Type && m.Attrs.Equal(other.Attrs)
}

// MarkSet is an ordered, deduplicated set of marks, sorted by
// (MarkType.Rank, insertion order).
type MarkSet []*Mark

// NoMarks is the canonical empty mark set.
var NoMarks MarkSet

// SameMarkSet reports whether two mark sets contain the same marks in the
// same order.
func SameMarkSet(a, b MarkSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// IsInSet reports whether a mark of type typ (with any attrs) is present.
func (ms MarkSet) IsInSet(typ *MarkType) bool {
	for _, m := range ms {
		if m.Type == typ {
			return true
		}
	}
	return false
}

// Add returns a new mark set with m added, applying exclusion rules:
//   - if an existing mark excludes m (and m does not exclude it back), ms is returned unchanged;
//   - all marks that m excludes are removed;
//   - a mark of the same single-instance type is replaced in place;
//   - otherwise m is inserted at its rank-sorted position.
func (ms MarkSet) Add(m *Mark) MarkSet {
	for _, existing := range ms {
		if existing.Eq(m) {
			return ms
		}
		if existing.Type.ExcludesType(m.Type) && !m.Type.ExcludesType(existing.Type) {
			return ms
		}
	}

	// A type excluding its own type (the default) makes this filter drop
	// any prior mark of the same type, which is how single-instance
	// replacement falls out of plain exclusion semantics with no special
	// case needed; types that declare coexistence simply don't exclude
	// themselves and so accumulate side by side.
	var filtered []*Mark
	for _, existing := range ms {
		if !m.Type.ExcludesType(existing.Type) {
			filtered = append(filtered, existing)
		}
	}

	at := len(filtered)
	for i, existing := range filtered {
		if existing.Type.Rank > m.Type.Rank {
			at = i
			break
		}
	}
	out := make(MarkSet, 0, len(filtered)+1)
	out = append(out, filtered[:at]...)
	out = append(out, m)
	out = append(out, filtered[at:]...)
	return out
}

// Remove returns a new mark set with any mark equal to m (type + attrs) removed.
func (ms MarkSet) Remove(m *Mark) MarkSet {
	var out MarkSet
	removed := false
	for _, existing := range ms {
		if !removed && existing.Eq(m) {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if !removed {
		return ms
	}
	return out
}

// SortMarks returns a new slice sorted by (rank, original index), used when
// building a mark set from an unordered list (e.g. during JSON decode).
func SortMarks(marks []*Mark) MarkSet {
	out := make(MarkSet, len(marks))
	copy(out, marks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type.Rank < out[j].Type.Rank
	})
	return out
}
