package meal

import (
	"sort"
	"strings"
)

// IngredientSet is a set of canonical ingredient tokens: lowercase, trimmed, never blank.
type IngredientSet map[string]struct{}

// ParseIngredients splits a comma-delimited ingredient string into canonical tokens.
// Blank pieces are dropped and duplicates collapse; an empty string yields an empty set.
func ParseIngredients(raw string) IngredientSet {
	return NewIngredientSet(strings.Split(raw, ",")...)
}

// NewIngredientSet canonicalizes the given tokens into a set.
func NewIngredientSet(tokens ...string) IngredientSet {
	set := make(IngredientSet, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether token is in the set.
func (s IngredientSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in ascending order.
func (s IngredientSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// String joins the sorted tokens with commas, the same shape ParseIngredients reads.
func (s IngredientSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

// Equal compares two sets ignoring order.
func (s IngredientSet) Equal(other IngredientSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s IngredientSet) Clone() IngredientSet {
	out := make(IngredientSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}
