package family

// Index holds the lookup maps derived from a [Snapshot]. Build it with
// [NewIndex]; every map preserves input order inside its slices.
type Index struct {
	// Persons maps person id to person.
	Persons map[string]*Person

	// Unions maps person id to every union the person is on either side of.
	Unions map[string][]*Union

	// UnionByID maps union id to union.
	UnionByID map[string]*Union

	// Children maps union id to the links whose parent is that union.
	Children map[string][]*ParentChildLink
}

// NewIndex builds the lookup maps in a single pass over each record set.
// Records with an empty id are ignored. When two records share an id the
// first one wins. A union whose two sides name the same person is listed
// once for that person.
func NewIndex(s *Snapshot) *Index {
	idx := &Index{
		Persons:   make(map[string]*Person),
		Unions:    make(map[string][]*Union),
		UnionByID: make(map[string]*Union),
		Children:  make(map[string][]*ParentChildLink),
	}
	if s == nil {
		return idx
	}

	for i := range s.Persons {
		p := &s.Persons[i]
		if p.ID == "" {
			continue
		}
		if _, dup := idx.Persons[p.ID]; !dup {
			idx.Persons[p.ID] = p
		}
	}

	for i := range s.Unions {
		u := &s.Unions[i]
		if u.ID == "" {
			continue
		}
		if _, dup := idx.UnionByID[u.ID]; dup {
			continue
		}
		idx.UnionByID[u.ID] = u
		h, w := u.Husband.ID(), u.Wife.ID()
		if h != "" {
			idx.Unions[h] = append(idx.Unions[h], u)
		}
		if w != "" && w != h {
			idx.Unions[w] = append(idx.Unions[w], u)
		}
	}

	for i := range s.Links {
		l := &s.Links[i]
		uid := l.Parent.ID()
		if uid == "" {
			continue
		}
		idx.Children[uid] = append(idx.Children[uid], l)
	}

	return idx
}

// Person returns the person with the given id.
func (idx *Index) Person(id string) (*Person, bool) {
	p, ok := idx.Persons[id]
	return p, ok
}

// ResolvePerson resolves a person reference against the index, falling back
// to the embedded value when the id is not indexed.
func (idx *Index) ResolvePerson(r Ref[Person]) (*Person, bool) {
	return r.Resolve(idx.Persons)
}

// ResolveUnion resolves a union reference against the index.
func (idx *Index) ResolveUnion(r Ref[Union]) (*Union, bool) {
	return r.Resolve(idx.UnionByID)
}

// UnionsOf returns the unions of personID in deterministic order. See
// [SortUnions]. The returned slice is a copy.
func (idx *Index) UnionsOf(personID string) []*Union {
	return SortUnions(personID, idx.Unions[personID])
}

// Child pairs a resolved child with the link that attaches it.
type Child struct {
	Person *Person
	Link   *ParentChildLink
}

// ChildrenOf returns the resolvable children of unionID in birth order. Links
// whose child cannot be resolved are skipped. A child linked twice to the same
// union is listed once.
func (idx *Index) ChildrenOf(unionID string) []Child {
	links := idx.Children[unionID]
	if len(links) == 0 {
		return nil
	}
	children := make([]Child, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		p, ok := idx.ResolvePerson(l.Child)
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		children = append(children, Child{Person: p, Link: l})
	}
	return SortByBirth(children, func(c Child) *Date { return c.Person.Birth })
}

// PartnerOf resolves the partner of personID in u. It reports false when the
// partner side is empty, dangling, or personID itself.
func (idx *Index) PartnerOf(u *Union, personID string) (*Person, bool) {
	ref := u.Partner(personID)
	if ref.IsZero() || ref.ID() == personID {
		return nil, false
	}
	return idx.ResolvePerson(ref)
}
