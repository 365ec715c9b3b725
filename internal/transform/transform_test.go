package transform

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"listfetch/internal/record"
)

var cmpOpts = []cmp.Option{cmp.AllowUnexported(record.Name{}), cmpopts.EquateEmpty()}

func rec(id, group int, name string) record.Record {
	return record.Record{ID: id, GroupID: group, Name: record.Present(name)}
}

func absent(id, group int) record.Record {
	return record.Record{ID: id, GroupID: group, Name: record.Absent()}
}

func TestTransform_FiltersSortsAndGroups(t *testing.T) {
	in := []record.Record{
		rec(1, 2, "Banana"),
		rec(2, 1, "Apple"),
		rec(3, 2, ""),
		absent(4, 1),
	}

	got := Transform(in)

	want := GroupedResult{
		{GroupID: 1, Records: []record.Record{rec(2, 1, "Apple")}},
		{GroupID: 2, Records: []record.Record{rec(1, 2, "Banana")}},
	}
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Fatalf("Transform mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		in   []record.Record
		want GroupedResult
	}{
		{name: "nil input", in: nil, want: GroupedResult{}},
		{name: "empty input", in: []record.Record{}, want: GroupedResult{}},
		{name: "all invalid", in: []record.Record{absent(1, 1), rec(2, 2, ""), absent(3, 3)}, want: GroupedResult{}},
		{
			name: "single record",
			in:   []record.Record{rec(7, 3, "Item 7")},
			want: GroupedResult{{GroupID: 3, Records: []record.Record{rec(7, 3, "Item 7")}}},
		},
		{
			name: "whitespace name is kept",
			in:   []record.Record{rec(1, 1, " ")},
			want: GroupedResult{{GroupID: 1, Records: []record.Record{rec(1, 1, " ")}}},
		},
		{
			name: "case sensitive ordering",
			in:   []record.Record{rec(1, 1, "apple"), rec(2, 1, "Banana"), rec(3, 1, "Apple")},
			want: GroupedResult{{GroupID: 1, Records: []record.Record{rec(3, 1, "Apple"), rec(2, 1, "Banana"), rec(1, 1, "apple")}}},
		},
		{
			name: "lexicographic not numeric",
			in:   []record.Record{rec(1, 1, "Item 28"), rec(2, 1, "Item 280"), rec(3, 1, "Item 29")},
			want: GroupedResult{{GroupID: 1, Records: []record.Record{rec(1, 1, "Item 28"), rec(2, 1, "Item 280"), rec(3, 1, "Item 29")}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.in)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got, cmpOpts...); diff != "" {
				t.Fatalf("Transform mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_DuplicateNamesKeepInputOrder(t *testing.T) {
	in := []record.Record{
		rec(30, 1, "Same"),
		rec(10, 1, "Same"),
		rec(20, 1, "Same"),
		rec(5, 1, "Alpha"),
		rec(10, 2, "Same"), // duplicate id passes through
	}

	got := Transform(in)

	require.Equal(t, []int{1, 2}, got.GroupIDs())
	ids := make([]int, 0, 4)
	for _, r := range got[0].Records {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []int{5, 30, 10, 20}, ids)
	require.Equal(t, 10, got[1].Records[0].ID)
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	in := []record.Record{rec(1, 2, "b"), rec(2, 1, "a")}
	orig := slices.Clone(in)
	_ = Transform(in)
	if diff := cmp.Diff(orig, in, cmpOpts...); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestTransformWithStats(t *testing.T) {
	in := []record.Record{rec(1, 1, "a"), absent(2, 1), rec(3, 2, ""), rec(4, 3, "d")}
	_, st := TransformWithStats(in)
	require.Equal(t, Stats{Received: 4, Kept: 2, Dropped: 2, Groups: 2}, st)
}

func TestGroupedResult_Helpers(t *testing.T) {
	res := Transform([]record.Record{rec(1, 4, "x"), rec(2, 1, "y"), rec(3, 4, "w")})

	require.Equal(t, 3, res.Len())
	require.Equal(t, []int{1, 4}, res.GroupIDs())

	g, ok := res.Find(4)
	require.True(t, ok)
	require.Len(t, g.Records, 2)

	_, ok = res.Find(2)
	require.False(t, ok)

	flat := res.Flatten()
	require.Equal(t, []int{2, 3, 1}, []int{flat[0].ID, flat[1].ID, flat[2].ID})
}

func randomBatch(r *rand.Rand, n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		group := r.IntN(5)
		switch r.IntN(5) {
		case 0:
			out[i] = absent(i, group)
		case 1:
			out[i] = rec(i, group, "")
		default:
			out[i] = rec(i, group, "Item "+strconv.Itoa(r.IntN(40)))
		}
	}
	return out
}

func TestTransform_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		in := randomBatch(r, r.IntN(60))
		got := Transform(in)

		for gi, grp := range got {
			require.NotEmpty(t, grp.Records)
			if gi > 0 {
				require.Less(t, got[gi-1].GroupID, grp.GroupID, "groups ascending")
			}
			for ri, rr := range grp.Records {
				name, ok := rr.Name.Get()
				require.True(t, ok)
				require.NotEmpty(t, name)
				require.Equal(t, grp.GroupID, rr.GroupID)
				if ri > 0 {
					prev, _ := grp.Records[ri-1].Name.Get()
					require.LessOrEqual(t, prev, name, "names ascending within group")
				}
			}
		}

		again := Transform(got.Flatten())
		if diff := cmp.Diff(got, again, cmpOpts...); diff != "" {
			t.Fatalf("sorted output is not a fixed point (-first +second):\n%s", diff)
		}
	}
}
