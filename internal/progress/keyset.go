package progress

import "github.com/abhisek/lingua/internal/keys"

// KeySet is an insertion-ordered set of ItemKeys compared case-insensitively.
// The first spelling added is the one kept.
type KeySet struct {
	order []string
	index map[string]struct{}
}

// NewKeySet returns a set holding the given keys.
func NewKeySet(ks ...string) *KeySet {
	s := &KeySet{index: make(map[string]struct{})}
	for _, k := range ks {
		s.Add(k)
	}
	return s
}

// Add inserts key and reports whether it was absent. Empty keys are ignored.
func (s *KeySet) Add(key string) bool {
	f := keys.Fold(key)
	if f == "" {
		return false
	}
	if _, ok := s.index[f]; ok {
		return false
	}
	s.index[f] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Remove deletes key and reports whether it was present.
func (s *KeySet) Remove(key string) bool {
	f := keys.Fold(key)
	if _, ok := s.index[f]; !ok {
		return false
	}
	delete(s.index, f)
	for i, k := range s.order {
		if keys.Fold(k) == f {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether key is in the set.
func (s *KeySet) Has(key string) bool {
	_, ok := s.index[keys.Fold(key)]
	return ok
}

// Len returns the number of keys.
func (s *KeySet) Len() int { return len(s.order) }

// Keys returns a copy of the keys in insertion order.
func (s *KeySet) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
