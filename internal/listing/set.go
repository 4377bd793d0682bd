package listing

// Set accumulates items across pages keyed by ID. The first occurrence of an
// ID wins; rows without an ID are dropped.
type Set struct {
	seen       map[string]struct{}
	items      []Item
	dropped    int
	duplicates int
}

func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Merge adds batch in order and returns how many items were new.
func (s *Set) Merge(batch []Item) int {
	added := 0
	for _, it := range batch {
		if it.ID == "" {
			s.dropped++
			continue
		}
		if _, ok := s.seen[it.ID]; ok {
			s.duplicates++
			continue
		}
		s.seen[it.ID] = struct{}{}
		s.items = append(s.items, it)
		added++
	}
	return added
}

func (s *Set) Len() int {
	return len(s.items)
}

// Dropped is the number of rows discarded for having no ID.
func (s *Set) Dropped() int {
	return s.dropped
}

// Duplicates is the number of rows discarded because their ID was already seen.
func (s *Set) Duplicates() int {
	return s.duplicates
}

// Items returns a copy of the collected items in first-seen order.
func (s *Set) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
