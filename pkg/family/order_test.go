package family

import (
	"slices"
	"testing"
)

func unionIDs(us []*Union) []string {
	ids := make([]string, len(us))
	for i, u := range us {
		ids[i] = u.ID
	}
	return ids
}

func TestSortUnions(t *testing.T) {
	a := RefTo[Person]("a")
	tests := []struct {
		name   string
		unions []*Union
		want   []string
	}{
		{
			name: "order key ascending",
			unions: []*Union{
				{ID: "u2", Husband: a, HusbandOrder: intp(2)},
				{ID: "u1", Husband: a, HusbandOrder: intp(1)},
			},
			want: []string{"u1", "u2"},
		},
		{
			name: "wife side uses wife order",
			unions: []*Union{
				{ID: "u2", Wife: a, WifeOrder: intp(2), HusbandOrder: intp(0)},
				{ID: "u1", Wife: a, WifeOrder: intp(1), HusbandOrder: intp(9)},
			},
			want: []string{"u1", "u2"},
		},
		{
			name: "missing order defaults to zero",
			unions: []*Union{
				{ID: "u1", Husband: a, HusbandOrder: intp(1)},
				{ID: "u0", Husband: a},
			},
			want: []string{"u0", "u1"},
		},
		{
			name: "ties broken by marriage date",
			unions: []*Union{
				{ID: "late", Husband: a, HusbandOrder: intp(1), MarriageDate: date("1950")},
				{ID: "early", Husband: a, HusbandOrder: intp(1), MarriageDate: date("1940")},
			},
			want: []string{"early", "late"},
		},
		{
			name: "undated keep their slot",
			unions: []*Union{
				{ID: "late", Husband: a, MarriageDate: date("1950")},
				{ID: "undated", Husband: a},
				{ID: "early", Husband: a, MarriageDate: date("1940")},
			},
			want: []string{"early", "undated", "late"},
		},
		{
			name: "equal keys without dates are stable",
			unions: []*Union{
				{ID: "x", Husband: a, HusbandOrder: intp(1)},
				{ID: "y", Husband: a, HusbandOrder: intp(1)},
				{ID: "z", Husband: a, HusbandOrder: intp(1)},
			},
			want: []string{"x", "y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := unionIDs(tt.unions)
			got := unionIDs(SortUnions("a", tt.unions))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SortUnions = %v, want %v", got, tt.want)
			}
			if !slices.Equal(unionIDs(tt.unions), before) {
				t.Error("SortUnions modified its input")
			}
		})
	}
}

func TestSortByBirth(t *testing.T) {
	type kid struct {
		id    string
		birth *Date
	}
	birth := func(k kid) *Date { return k.birth }
	ids := func(ks []kid) []string {
		out := make([]string, len(ks))
		for i, k := range ks {
			out[i] = k.id
		}
		return out
	}

	tests := []struct {
		name string
		kids []kid
		want []string
	}{
		{"empty", nil, []string{}},
		{"ascending", []kid{{"b", date("1922")}, {"a", date("1920")}}, []string{"a", "b"}},
		{"undated pinned", []kid{{"c", date("1930")}, {"x", nil}, {"a", date("1910")}, {"b", date("1920")}}, []string{"a", "x", "b", "c"}},
		{"all undated", []kid{{"z", nil}, {"y", nil}}, []string{"z", "y"}},
		{"equal dates stable", []kid{{"first", date("1920")}, {"second", date("1920")}}, []string{"first", "second"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SortByBirth(tt.kids, birth))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SortByBirth = %v, want %v", got, tt.want)
			}
		})
	}
}
