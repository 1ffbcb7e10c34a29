package family

import (
	"strconv"

	"github.com/google/uuid"
)

// idNamespace scopes generated identifiers so they never collide with ids
// produced elsewhere.
var idNamespace = uuid.MustParse("6f1c0b6e-7a43-5d2b-9c1e-4b3f6a0d8e21")

// EnsureIDs assigns a deterministic identifier to every union and link that
// has none. Identifiers are name-based UUIDs derived from the record's
// references and position, so the same input always yields the same ids.
// Persons are never assigned ids: a person without one cannot be referenced.
// It returns the number of ids assigned.
func EnsureIDs(s *Snapshot) int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range s.Unions {
		u := &s.Unions[i]
		if u.ID != "" {
			continue
		}
		u.ID = derivedID("union", strconv.Itoa(i), u.Husband.ID(), u.Wife.ID())
		n++
	}
	for i := range s.Links {
		l := &s.Links[i]
		if l.ID != "" {
			continue
		}
		l.ID = derivedID("link", strconv.Itoa(i), l.Parent.ID(), l.Child.ID())
		n++
	}
	return n
}

func derivedID(kind string, parts ...string) string {
	name := kind
	for _, p := range parts {
		name += "\x00" + p
	}
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
