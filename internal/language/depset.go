package language

// DependencySet is an immutable set of package names that remembers the order
// names were first added in.
type DependencySet struct {
	names []string
	index map[string]struct{}
}

func NewDependencySet(groups ...[]string) DependencySet {
	set := DependencySet{index: make(map[string]struct{})}
	for _, group := range groups {
		for _, name := range group {
			if name == "" {
				continue
			}
			if _, ok := set.index[name]; ok {
				continue
			}
			set.index[name] = struct{}{}
			set.names = append(set.names, name)
		}
	}
	return set
}

func (s DependencySet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s DependencySet) Names() []string {
	return append([]string(nil), s.names...)
}

func (s DependencySet) Len() int {
	return len(s.names)
}

// Intersect returns the members of s that appear in names, in s order.
func (s DependencySet) Intersect(names []string) []string {
	if len(names) == 0 || len(s.names) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	var out []string
	for _, name := range s.names {
		if _, ok := wanted[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
