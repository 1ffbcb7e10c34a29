package mongodb

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/kintree/pkg/family"
)

type personDoc struct {
	ID          bson.RawValue `bson:"_id"`
	Name        string        `bson:"name"`
	Gender      string        `bson:"gender"`
	Birth       bson.RawValue `bson:"birth"`
	Death       bson.RawValue `bson:"death"`
	IsDeceased  bool          `bson:"isDeceased"`
	Address     string        `bson:"address"`
	Description string        `bson:"description"`
	AvatarURL   string        `bson:"avatarUrl"`
}

type unionDoc struct {
	ID           bson.RawValue `bson:"_id"`
	Husband      bson.RawValue `bson:"husband"`
	Wife         bson.RawValue `bson:"wife"`
	HusbandOrder bson.RawValue `bson:"husbandOrder"`
	WifeOrder    bson.RawValue `bson:"wifeOrder"`
	MarriageDate bson.RawValue `bson:"marriageDate"`
	DivorceDate  bson.RawValue `bson:"divorceDate"`
}

type linkDoc struct {
	ID        bson.RawValue `bson:"_id"`
	Parent    bson.RawValue `bson:"parent"`
	Child     bson.RawValue `bson:"child"`
	IsAdopted bool          `bson:"isAdopted"`
}

// buildSnapshot converts raw documents. Persons without a usable id are
// dropped; unions and links without one get a derived id.
func buildSnapshot(persons []personDoc, unions []unionDoc, links []linkDoc) *family.Snapshot {
	s := &family.Snapshot{
		Persons: make([]family.Person, 0, len(persons)),
		Unions:  make([]family.Union, 0, len(unions)),
		Links:   make([]family.ParentChildLink, 0, len(links)),
	}
	for _, d := range persons {
		if p, ok := d.person(); ok {
			s.Persons = append(s.Persons, p)
		}
	}
	for _, d := range unions {
		s.Unions = append(s.Unions, d.union())
	}
	for _, d := range links {
		s.Links = append(s.Links, d.link())
	}
	family.EnsureIDs(s)
	return s
}

func (d personDoc) person() (family.Person, bool) {
	id, ok := idString(d.ID)
	if !ok {
		return family.Person{}, false
	}
	return family.Person{
		ID:          id,
		Name:        d.Name,
		Gender:      family.Gender(d.Gender),
		Birth:       dateValue(d.Birth),
		Death:       dateValue(d.Death),
		IsDeceased:  d.IsDeceased,
		Address:     d.Address,
		Description: d.Description,
		AvatarURL:   d.AvatarURL,
	}, true
}

func (d unionDoc) union() family.Union {
	id, _ := idString(d.ID)
	return family.Union{
		ID:           id,
		Husband:      personRef(d.Husband),
		Wife:         personRef(d.Wife),
		HusbandOrder: intValue(d.HusbandOrder),
		WifeOrder:    intValue(d.WifeOrder),
		MarriageDate: dateValue(d.MarriageDate),
		DivorceDate:  dateValue(d.DivorceDate),
	}
}

func (d linkDoc) link() family.ParentChildLink {
	id, _ := idString(d.ID)
	parent, _ := idString(d.Parent)
	return family.ParentChildLink{
		ID:        id,
		Parent:    family.RefTo[family.Union](parent),
		Child:     personRef(d.Child),
		IsAdopted: d.IsAdopted,
	}
}

// personRef accepts a bare id or a populated person document.
func personRef(v bson.RawValue) family.Ref[family.Person] {
	if v.Type == bson.TypeEmbeddedDocument {
		var d personDoc
		if err := v.Unmarshal(&d); err == nil {
			if p, ok := d.person(); ok {
				return family.Resolved(p)
			}
		}
	}
	id, _ := idString(v)
	return family.RefTo[family.Person](id)
}

// idString renders ObjectIDs as hex, keeps strings, formats integers and
// reads "_id" from populated sub-documents.
func idString(v bson.RawValue) (string, bool) {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex(), true
	case bson.TypeString:
		s := v.StringValue()
		return s, s != ""
	case bson.TypeInt32:
		return strconv.Itoa(int(v.Int32())), true
	case bson.TypeInt64:
		return strconv.FormatInt(v.Int64(), 10), true
	case bson.TypeEmbeddedDocument:
		inner, err := v.Document().LookupErr("_id")
		if err != nil {
			return "", false
		}
		return idString(inner)
	default:
		return "", false
	}
}

func dateValue(v bson.RawValue) *family.Date {
	switch v.Type {
	case bson.TypeDateTime:
		d := family.Date{Time: time.UnixMilli(v.DateTime()).UTC()}
		return &d
	case bson.TypeString:
		d, err := family.ParseDate(v.StringValue())
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

func intValue(v bson.RawValue) *int {
	var n int
	switch v.Type {
	case bson.TypeInt32:
		n = int(v.Int32())
	case bson.TypeInt64:
		n = int(v.Int64())
	case bson.TypeDouble:
		n = int(v.Double())
	default:
		return nil
	}
	return &n
}
