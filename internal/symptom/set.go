package symptom

import "strings"

// Symptom is a raw symptom string paired with its normalized key.
type Symptom struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
}

// Set is an insertion-ordered collection of symptoms keyed by normalized form.
// The zero value is not usable; call NewSet.
type Set struct {
	items []Symptom
	index map[string]int
}

// NewSet creates a Set seeded with the given raw symptoms.
func NewSet(raws ...string) *Set {
	s := &Set{index: make(map[string]int)}
	for _, r := range raws {
		s.Add(r)
	}
	return s
}

// Add appends raw if no element shares its normalized form.
// Returns true if an insertion occurred. Blank input is never inserted.
func (s *Set) Add(raw string) bool {
	key := Normalize(raw)
	if key == "" {
		return false
	}
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, Symptom{Raw: raw, Normalized: key})
	return true
}

// Contains reports membership by normalized form.
func (s *Set) Contains(raw string) bool {
	_, ok := s.index[Normalize(raw)]
	return ok
}

// Len returns the number of distinct symptoms.
func (s *Set) Len() int {
	return len(s.items)
}

// List returns the raw strings in insertion order.
func (s *Set) List() []string {
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Raw
	}
	return out
}

// Symptoms returns a copy of the elements in insertion order.
func (s *Set) Symptoms() []Symptom {
	out := make([]Symptom, len(s.items))
	copy(out, s.items)
	return out
}

// Join renders the display list joined by sep.
func (s *Set) Join(sep string) string {
	return strings.Join(s.List(), sep)
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{
		items: make([]Symptom, len(s.items)),
		index: make(map[string]int, len(s.index)),
	}
	copy(c.items, s.items)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Dedupe returns raws with later normalized duplicates and blanks removed,
// preserving first-seen order.
func Dedupe(raws []string) []string {
	return NewSet(raws...).List()
}
