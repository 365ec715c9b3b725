package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileDriver(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "list.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"id":3,"listId":1,"name":"Item 3"}]`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`[{"id":3,`), 0o644))

	a, err := NewAdapter("file")
	require.NoError(t, err)
	require.Error(t, a.Configure(Config{}), "path is required")

	require.NoError(t, a.Configure(Config{Path: good}))
	recs, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, a.Configure(Config{Path: bad}))
	_, err = a.Fetch(context.Background())
	var de *DecodeError
	require.ErrorAs(t, err, &de)

	require.NoError(t, a.Configure(Config{Path: filepath.Join(dir, "missing.json")}))
	_, err = a.Fetch(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
}
