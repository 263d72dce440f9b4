package kind

import "strings"

// Selection is an ordered set of kinds. It is what a publisher fires and
// what a participant listens to. Publishing a selection dispatches each
// kind in order.
type Selection []Kind

// Select builds a selection, dropping invalid kinds and duplicates while
// keeping the first occurrence order.
func Select(kinds ...Kind) Selection {
	var seen [Count]bool
	out := make(Selection, 0, len(kinds))
	for _, k := range kinds {
		if !k.Valid() || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ParseSelection resolves a list of kind names. Unknown names are
// returned separately so callers can report them.
func ParseSelection(names []string) (Selection, []string) {
	kinds := make([]Kind, 0, len(names))
	var unknown []string
	for _, n := range names {
		k, ok := Parse(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		kinds = append(kinds, k)
	}
	return Select(kinds...), unknown
}

// Contains reports whether k is part of the selection.
func (s Selection) Contains(k Kind) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

// Empty reports whether the selection names no kinds.
func (s Selection) Empty() bool { return len(s) == 0 }

// Reserved returns the kinds of s that belong to reserved categories.
func (s Selection) Reserved() Selection {
	var out Selection
	for _, k := range s {
		if k.Reserved() {
			out = append(out, k)
		}
	}
	return out
}

// ByCategory groups the selection by category, preserving order inside
// each group.
func (s Selection) ByCategory() map[Category]Selection {
	out := make(map[Category]Selection)
	for _, k := range s {
		c := k.Category()
		out[c] = append(out[c], k)
	}
	return out
}

// Names returns the catalog names of the selection.
func (s Selection) Names() []string {
	out := make([]string, len(s))
	for i, k := range s {
		out[i] = k.String()
	}
	return out
}

func (s Selection) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}
