package family

import (
	"cmp"
	"slices"
)

// SortUnions returns unions ordered for personID: by the order key on the
// person's side ascending, then by marriage date within equal keys. Unions
// without a marriage date keep their slot within an equal-key run. The input
// slice is not modified.
func SortUnions(personID string, unions []*Union) []*Union {
	if len(unions) == 0 {
		return nil
	}
	out := slices.Clone(unions)
	slices.SortStableFunc(out, func(a, b *Union) int {
		return cmp.Compare(a.OrderFor(personID), b.OrderFor(personID))
	})

	for start := 0; start < len(out); {
		end := start + 1
		key := out[start].OrderFor(personID)
		for end < len(out) && out[end].OrderFor(personID) == key {
			end++
		}
		sortDatedInPlace(out[start:end], func(u *Union) *Date { return u.MarriageDate })
		start = end
	}
	return out
}

// SortByBirth returns items ordered by the date returned from birth. Items
// without a date keep their exact input positions; dated items are stably
// sorted among the remaining positions. The input slice is not modified.
func SortByBirth[T any](items []T, birth func(T) *Date) []T {
	if len(items) == 0 {
		return nil
	}
	out := slices.Clone(items)
	sortDatedInPlace(out, birth)
	return out
}

// sortDatedInPlace sorts the dated entries of items among their own slots,
// leaving undated entries where they are.
func sortDatedInPlace[T any](items []T, date func(T) *Date) {
	slots := make([]int, 0, len(items))
	dated := make([]T, 0, len(items))
	for i, it := range items {
		if hasDate(date(it)) {
			slots = append(slots, i)
			dated = append(dated, it)
		}
	}
	if len(dated) < 2 {
		return
	}
	slices.SortStableFunc(dated, func(a, b T) int {
		return date(a).Compare(date(b).Time)
	})
	for i, slot := range slots {
		items[slot] = dated[i]
	}
}
