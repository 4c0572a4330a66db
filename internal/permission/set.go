package permission

// Set is an ordered, duplicate-free collection of permissions.
// The zero value is ready to use.
type Set struct {
	items []Permission
}

// NewSet builds a set from the given permissions, dropping duplicates.
func NewSet(ps ...Permission) Set {
	var s Set
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

// Add appends p unless it is already present.
func (s *Set) Add(p Permission) {
	if s.Has(p) {
		return
	}
	s.items = append(s.items, p)
}

// Has reports whether p is in the set.
func (s *Set) Has(p Permission) bool {
	for _, it := range s.items {
		if it == p {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.items) }

// Snapshot returns a copy of the current entries. Derivation iterates over
// a snapshot so that entries added mid-scan are never themselves scanned.
func (s *Set) Snapshot() []Permission {
	out := make([]Permission, len(s.items))
	copy(out, s.items)
	return out
}

// Values returns the values of all entries of the given kind, in insertion
// order.
func (s *Set) Values(k Kind) []string {
	var out []string
	for _, it := range s.items {
		if it.Kind == k {
			out = append(out, it.Value)
		}
	}
	return out
}

// Scopes is shorthand for Values(KindScope).
func (s *Set) Scopes() []string { return s.Values(KindScope) }

// Strings encodes every entry in storage form.
func (s *Set) Strings() []string {
	out := make([]string, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.String())
	}
	return out
}

// ParseSet rebuilds a set from its storage form.
func ParseSet(raw []string) (Set, error) {
	var s Set
	for _, r := range raw {
		p, err := Parse(r)
		if err != nil {
			return Set{}, err
		}
		s.Add(p)
	}
	return s, nil
}
