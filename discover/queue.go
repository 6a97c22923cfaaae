// Ordered path set with deduplication.
// Overlapping patterns (e.g. "images" and "images/icons") must not list the
// same file twice.
package discover

// PathSet keeps paths in insertion order and ignores repeats.
type PathSet struct {
	items []string
	seen  map[string]bool
}

// NewPathSet creates an empty PathSet.
func NewPathSet() *PathSet {
	return &PathSet{
		seen: make(map[string]bool),
	}
}

// Add appends path if it hasn't been seen before.
func (s *PathSet) Add(path string) {
	if s.seen[path] {
		return
	}
	s.seen[path] = true
	s.items = append(s.items, path)
}

// Len returns the number of unique paths.
func (s *PathSet) Len() int {
	return len(s.items)
}

// All returns the paths in insertion order.
func (s *PathSet) All() []string {
	return s.items
}
