package family

// Gender is the binary gender recorded for a person.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// Valid reports whether g is one of the recognised values.
func (g Gender) Valid() bool { return g == Male || g == Female }

// Person is a vertex of the family tree.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      Gender `json:"gender,omitempty"`
	Birth       *Date  `json:"birth,omitempty"`
	Death       *Date  `json:"death,omitempty"`
	IsDeceased  bool   `json:"isDeceased,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// EntityID implements [Entity].
func (p Person) EntityID() string { return p.ID }

// Deceased reports whether the person is flagged deceased or has a death date.
func (p Person) Deceased() bool { return p.IsDeceased || hasDate(p.Death) }

// Union pairs two persons. Husband and Wife are positional sides; the data
// does not enforce gender on either side.
type Union struct {
	ID           string      `json:"id"`
	Husband      Ref[Person] `json:"husband"`
	Wife         Ref[Person] `json:"wife"`
	HusbandOrder *int        `json:"husbandOrder,omitempty"`
	WifeOrder    *int        `json:"wifeOrder,omitempty"`
	MarriageDate *Date       `json:"marriageDate,omitempty"`
	DivorceDate  *Date       `json:"divorceDate,omitempty"`
}

// EntityID implements [Entity].
func (u Union) EntityID() string { return u.ID }

// Involves reports whether personID is on either side of the union.
func (u Union) Involves(personID string) bool {
	return personID != "" && (u.Husband.ID() == personID || u.Wife.ID() == personID)
}

// Partner returns the reference on the other side of the union from personID.
// The zero Ref is returned when personID is not part of the union.
func (u Union) Partner(personID string) Ref[Person] {
	switch personID {
	case "":
		return Ref[Person]{}
	case u.Husband.ID():
		return u.Wife
	case u.Wife.ID():
		return u.Husband
	}
	return Ref[Person]{}
}

// OrderFor returns the order key on personID's side of the union: HusbandOrder
// when personID is the husband side, WifeOrder otherwise. Unset keys are 0.
func (u Union) OrderFor(personID string) int {
	order := u.WifeOrder
	if u.Husband.ID() == personID {
		order = u.HusbandOrder
	}
	if order == nil {
		return 0
	}
	return *order
}

// Sides returns the husband and wife identifiers in that order.
func (u Union) Sides() [2]string { return [2]string{u.Husband.ID(), u.Wife.ID()} }

// ParentChildLink attaches a child to the union that parents it.
type ParentChildLink struct {
	ID        string      `json:"id,omitempty"`
	Parent    Ref[Union]  `json:"parent"`
	Child     Ref[Person] `json:"child"`
	IsAdopted bool        `json:"isAdopted,omitempty"`
}

// EntityID implements [Entity].
func (l ParentChildLink) EntityID() string { return l.ID }

// Snapshot is one consistent, read-only copy of the family data.
//
// Roots optionally names the persons a layout starts from when the caller
// does not choose any.
type Snapshot struct {
	Roots   []string          `json:"roots,omitempty"`
	Persons []Person          `json:"persons"`
	Unions  []Union           `json:"unions"`
	Links   []ParentChildLink `json:"links"`
}

// Flatten returns a snapshot in which every embedded person and union is
// also listed in Persons and Unions, so that all references resolve by id.
// Embedded values whose id is empty or already listed are ignored; listed
// records always win. When nothing needs moving s itself is returned,
// otherwise a copy. s is never modified.
func (s *Snapshot) Flatten() *Snapshot {
	if s == nil {
		return nil
	}
	persons := make(map[string]bool, len(s.Persons))
	for _, p := range s.Persons {
		persons[p.ID] = true
	}
	unions := make(map[string]bool, len(s.Unions))
	for _, u := range s.Unions {
		unions[u.ID] = true
	}

	var extraPersons []Person
	var extraUnions []Union
	addPerson := func(r Ref[Person]) {
		if v, ok := r.Embedded(); ok && v.ID != "" && !persons[v.ID] {
			persons[v.ID] = true
			extraPersons = append(extraPersons, *v)
		}
	}
	addSides := func(u Union) {
		addPerson(u.Husband)
		addPerson(u.Wife)
	}

	for _, u := range s.Unions {
		addSides(u)
	}
	for _, l := range s.Links {
		if v, ok := l.Parent.Embedded(); ok && v.ID != "" && !unions[v.ID] {
			unions[v.ID] = true
			extraUnions = append(extraUnions, *v)
			addSides(*v)
		}
		addPerson(l.Child)
	}

	if len(extraPersons) == 0 && len(extraUnions) == 0 {
		return s
	}
	return &Snapshot{
		Roots:   s.Roots,
		Persons: append(append([]Person(nil), s.Persons...), extraPersons...),
		Unions:  append(append([]Union(nil), s.Unions...), extraUnions...),
		Links:   s.Links,
	}
}

// Counts returns the number of persons, unions and links.
func (s *Snapshot) Counts() (persons, unions, links int) {
	if s == nil {
		return 0, 0, 0
	}
	return len(s.Persons), len(s.Unions), len(s.Links)
}
