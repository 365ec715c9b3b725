package stdout

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"listfetch/internal/record"
	"listfetch/internal/state"
	"listfetch/internal/transform"
	"listfetch/sink"
)

func snapshot() state.Snapshot {
	g, st := transform.TransformWithStats([]record.Record{
		{ID: 1, GroupID: 2, Name: record.Present("Banana")},
		{ID: 2, GroupID: 1, Name: record.Present("Apple")},
		{ID: 3, GroupID: 2, Name: record.Present("")},
		{ID: 4, GroupID: 1, Name: record.Absent()},
	})
	return state.NewSnapshot(g, st, time.Unix(0, 0))
}

func TestDriver_PushRendersGroups(t *testing.T) {
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Configure(Config{Out: &buf}))
	require.NoError(t, s.Push(context.Background(), snapshot()))
	require.NoError(t, s.Close())

	require.Equal(t, "List ID: 1\n  Apple\nList ID: 2\n  Banana\n", buf.String())
}

func TestDriver_CounterCountsAndIDs(t *testing.T) {
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Configure(Config{Out: &buf, PrintCounter: true, Counts: true, ShowIDs: true}))
	snap := snapshot()
	require.NoError(t, s.Push(context.Background(), snap))
	require.NoError(t, s.Push(context.Background(), snap))

	out := buf.String()
	require.Contains(t, out, "[snapshot 000001] "+snap.ID)
	require.Contains(t, out, "[snapshot 000002] "+snap.ID)
	require.Contains(t, out, "List ID: 1 (1)\n  Apple #2\n")
}

func TestDriver_ConfigureRejectsWrongType(t *testing.T) {
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)
	require.Error(t, s.Configure(struct{}{}))
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, transform.GroupedResult{}, Config{})
	require.Equal(t, "No items\n", buf.String())
}
