package live

import (
	"sort"
	"strings"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// keyed is any record with a stable unique id.
type keyed interface {
	Key() string
}

func indexByKey[T keyed](list []T, id string) int {
	for i, rec := range list {
		if rec.Key() == id {
			return i
		}
	}
	return -1
}

// insertRecord prepends rec unless its id is already present. A duplicate
// insert (e.g. re-delivery after a reconnect) leaves the list untouched.
// The returned slice is a fresh value; the input is never mutated.
func insertRecord[T keyed](list []T, rec T) ([]T, bool) {
	if indexByKey(list, rec.Key()) >= 0 {
		return list, false
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, rec)
	out = append(out, list...)
	return out, true
}

// updateRecord replaces the record with rec's id in place, preserving its
// position. Updates for absent ids are dropped; the manual refresh path
// recovers records missed across a stream gap.
func updateRecord[T keyed](list []T, rec T) ([]T, bool) {
	i := indexByKey(list, rec.Key())
	if i < 0 {
		return list, false
	}
	out := append([]T(nil), list...)
	out[i] = rec
	return out, true
}

// deleteRecord removes the record with the given id; no-op when absent.
func deleteRecord[T keyed](list []T, id string) ([]T, bool) {
	i := indexByKey(list, id)
	if i < 0 {
		return list, false
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out, true
}

// sortMembers orders team members by name. Name order is the canonical
// order for the roster, re-established after every member mutation.
func sortMembers(members []model.TeamMember) {
	sort.SliceStable(members, func(i, j int) bool {
		a := strings.ToLower(members[i].Name)
		b := strings.ToLower(members[j].Name)
		if a == b {
			return members[i].ID < members[j].ID
		}
		return a < b
	})
}
