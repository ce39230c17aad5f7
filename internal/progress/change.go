package progress

// ChangeKind names what mutated a store.
type ChangeKind string

const (
	ChangeAttempt ChangeKind = "attempt"
	ChangeDue     ChangeKind = "due"
	ChangeMerge   ChangeKind = "merge"
	ChangeReset   ChangeKind = "reset"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Language string
	Kind     ChangeKind
	// Keys lists the ItemKeys touched, when known.
	Keys []string
}

type subscriber struct {
	id int
	fn func(Change)
}

// Subscribe registers fn to be called after each mutation, outside the
// store's lock. The returned func unregisters it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
