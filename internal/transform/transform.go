package transform

import (
	"cmp"
	"slices"
	"strings"

	"listfetch/internal/record"
)

// Group is one run of records sharing a group id, ordered by name.
type Group struct {
	GroupID int             `json:"list_id"`
	Records []record.Record `json:"items"`
}

// GroupedResult is ordered ascending by GroupID.
type GroupedResult []Group

// Flatten returns the records in display order.
func (g GroupedResult) Flatten() []record.Record {
	out := make([]record.Record, 0, g.Len())
	for _, grp := range g {
		out = append(out, grp.Records...)
	}
	return out
}

// Len is the total number of records across all groups.
func (g GroupedResult) Len() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Records)
	}
	return n
}

// Find returns the group with the given id.
func (g GroupedResult) Find(groupID int) (Group, bool) {
	i, ok := slices.BinarySearchFunc(g, groupID, func(grp Group, id int) int {
		return cmp.Compare(grp.GroupID, id)
	})
	if !ok {
		return Group{}, false
	}
	return g[i], true
}

// GroupIDs lists the group ids in order.
func (g GroupedResult) GroupIDs() []int {
	ids := make([]int, len(g))
	for i, grp := range g {
		ids[i] = grp.GroupID
	}
	return ids
}

type Stats struct {
	Received int `json:"received"`
	Kept     int `json:"kept"`
	Dropped  int `json:"dropped"`
	Groups   int `json:"groups"`
}

// Include is the filter predicate: only records with a present, non-empty
// name survive.
func Include(r record.Record) bool { return r.Valid() }

// Compare orders records by (GroupID, Name). Both names are assumed present;
// an absent name sorts as the empty string.
func Compare(a, b record.Record) int {
	if c := cmp.Compare(a.GroupID, b.GroupID); c != 0 {
		return c
	}
	return strings.Compare(a.Name.Or(""), b.Name.Or(""))
}

// Transform filters, sorts and groups records. The input slice is not
// modified.
func Transform(records []record.Record) GroupedResult {
	res, _ := TransformWithStats(records)
	return res
}

// TransformWithStats is Transform plus a summary of what was dropped.
func TransformWithStats(records []record.Record) (GroupedResult, Stats) {
	kept := make([]record.Record, 0, len(records))
	for _, r := range records {
		if Include(r) {
			kept = append(kept, r)
		}
	}
	slices.SortStableFunc(kept, Compare)

	res := GroupedResult{}
	for start := 0; start < len(kept); {
		end := start + 1
		for end < len(kept) && kept[end].GroupID == kept[start].GroupID {
			end++
		}
		res = append(res, Group{GroupID: kept[start].GroupID, Records: kept[start:end:end]})
		start = end
	}

	return res, Stats{
		Received: len(records),
		Kept:     len(kept),
		Dropped:  len(records) - len(kept),
		Groups:   len(res),
	}
}
