package hadronia

type ReconstructOptions struct {
	// Keep final-state particles whose ancestry contains a diquark
	AllowDiquarkDescendants bool
	// Upper bound on subsets per group and on candidate sets; 0 disables it
	MaxCombinations int
}

// Reconstructor builds hadronium sets matching a fixed pattern. It holds no
// per-event state and can be shared between goroutines.
type Reconstructor struct {
	pattern    Pattern
	acceptance *AcceptanceProfile
	options    ReconstructOptions
}

func NewReconstructor(pattern Pattern, acceptance *AcceptanceProfile, options ReconstructOptions) *Reconstructor {
	return &Reconstructor{pattern: pattern, acceptance: acceptance, options: options}
}

func (r *Reconstructor) Pattern() Pattern {
	return r.pattern
}

// Reconstruct parses criteria and reconstructs a single event with default options.
func Reconstruct(event *Event, criteria string, acceptance *AcceptanceProfile) ([]HadroniumSet, error) {
	pattern, err := ParsePattern(criteria)
	if err != nil {
		return nil, err
	}
	return NewReconstructor(pattern, acceptance, ReconstructOptions{}).Reconstruct(event)
}

// Eligible returns the 0-based indices of the particles that can take part
// in a reconstruction.
func (r *Reconstructor) Eligible(event *Event) []int {
	var eligible []int
	for i, p := range event.Particles {
		if !p.IsFinal() {
			continue
		}
		if p.DiquarkDescendant && !r.options.AllowDiquarkDescendants {
			continue
		}
		if !r.acceptance.Accepts(p) {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}

// Reconstruct returns every hadronium set of the event matching the pattern.
// An event that can not satisfy some group gives an empty result and no error.
func (r *Reconstructor) Reconstruct(event *Event) ([]HadroniumSet, error) {
	eligible := r.Eligible(event)
	if len(eligible) == 0 {
		return nil, nil
	}

	var sets []HadroniumSet
	for i, group := range r.pattern.Groups {
		candidates, err := r.reconstructGroup(event, eligible, group)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, nil
		}
		if i == 0 {
			sets = make([]HadroniumSet, len(candidates))
			for j, c := range candidates {
				sets[j] = HadroniumSet{c}
			}
			continue
		}
		sets, err = r.extend(sets, candidates)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			return nil, nil
		}
	}
	return dedupSets(sets), nil
}

func (r *Reconstructor) reconstructGroup(event *Event, eligible []int, group Group) ([]Hadronium, error) {
	var reconstructed []Hadronium
	for _, req := range group {
		var matching []int
		for _, i := range eligible {
			if event.Particles[i].Pid == req.Pid {
				matching = append(matching, i)
			}
		}
		if len(matching) < req.Count {
			return nil, nil
		}
		if req.Count == 1 {
			for _, i := range matching {
				reconstructed = append(reconstructed, NewHadronium(event, i))
			}
			continue
		}

		limit := r.options.MaxCombinations
		if limit > 0 && Binomial(len(matching), req.Count, limit) > limit {
			return nil, ErrTooManyCombinations
		}
		members := make([]Hadronium, req.Count)
		combinations := NewCombinations(len(matching), req.Count)
		for combinations.Next() {
			for k, idx := range combinations.Indices() {
				members[k] = NewHadronium(event, matching[idx])
			}
			reconstructed = append(reconstructed, Combine(members...))
		}
	}
	return reconstructed, nil
}

// extend appends every candidate to every accumulated set, dropping the
// results that use a particle twice.
func (r *Reconstructor) extend(sets []HadroniumSet, candidates []Hadronium) ([]HadroniumSet, error) {
	limit := r.options.MaxCombinations
	var extended []HadroniumSet
	for _, set := range sets {
		used := set.IDs()
		for _, c := range candidates {
			if intersects(used, c.IDs) {
				continue
			}
			next := make(HadroniumSet, len(set), len(set)+1)
			copy(next, set)
			extended = append(extended, append(next, c))
			if limit > 0 && len(extended) > limit {
				return nil, ErrTooManyCombinations
			}
		}
	}
	return extended, nil
}

// dedupSets keeps the first set for each distinct union of particle indices.
func dedupSets(sets []HadroniumSet) []HadroniumSet {
	seen := make(map[string]bool, len(sets))
	unique := sets[:0:0]
	for _, s := range sets {
		key := s.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}
	return unique
}

// intersects reports whether two sorted slices share an element.
func intersects(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}
