package pebble

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guileen/doclitedb/engine/types"
	"github.com/guileen/doclitedb/storage"
)

func newTestEngine(t *testing.T) (*Engine, storage.KV) {
	t.Helper()
	kv, err := storage.NewPebbleKV(storage.TestPebbleConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return NewEngine(kv), kv
}

func seedKeys(t *testing.T, kv storage.KV, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		key := []byte(fmt.Sprintf("k%03d", i))
		require.NoError(t, kv.Set(ctx, key, []byte(fmt.Sprintf("doc%d", i))))
	}
}

func drain(t *testing.T, it types.EntryIterator) []types.IndexEntry {
	t.Helper()
	defer it.Close()
	var out []types.IndexEntry
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, e)
	}
	require.NoError(t, it.Err())
	return out
}

func TestGetRangeBounds(t *testing.T) {
	eng, kv := newTestEngine(t)
	seedKeys(t, kv, 10)

	out := drain(t, eng.GetRange(context.Background(), types.ScanRange{
		Start: []byte("k002"),
		End:   []byte("k005"),
	}))
	require.Len(t, out, 3)
	require.Equal(t, "k002", string(out[0].Key))
	require.Equal(t, "doc4", out[2].DocID)
}

func TestGetRangeLimitOffsetReverse(t *testing.T) {
	eng, kv := newTestEngine(t)
	seedKeys(t, kv, 10)

	out := drain(t, eng.GetRange(context.Background(), types.ScanRange{
		Start:  []byte("k000"),
		End:    []byte("k010"),
		Limit:  3,
		Offset: 2,
	}))
	require.Len(t, out, 3)
	require.Equal(t, "k002", string(out[0].Key))

	out = drain(t, eng.GetRange(context.Background(), types.ScanRange{
		Start:   []byte("k000"),
		End:     []byte("k010"),
		Limit:   2,
		Reverse: true,
	}))
	require.Len(t, out, 2)
	require.Equal(t, "k009", string(out[0].Key))
	require.Equal(t, "k008", string(out[1].Key))
}

func TestGetRangeContextCancel(t *testing.T) {
	eng, kv := newTestEngine(t)
	seedKeys(t, kv, 5)

	ctx, cancel := context.WithCancel(context.Background())
	it := eng.GetRange(ctx, types.ScanRange{Start: []byte("k000"), End: []byte("k005")})
	defer it.Close()

	_, ok := it.Next()
	require.True(t, ok)
	cancel()
	_, ok = it.Next()
	require.False(t, ok)
	require.ErrorIs(t, it.Err(), context.Canceled)
}

func TestGetRangeSnapshot(t *testing.T) {
	eng, kv := newTestEngine(t)
	seedKeys(t, kv, 3)

	snap, err := kv.NewSnapshot()
	require.NoError(t, err)
	defer snap.Close()

	require.NoError(t, kv.Set(context.Background(), []byte("k900"), []byte("late")))

	out := drain(t, eng.GetRange(context.Background(), types.ScanRange{
		Start:    []byte("k"),
		End:      []byte("l"),
		Snapshot: snap,
	}))
	require.Len(t, out, 3)
}

func TestGetKeysCount(t *testing.T) {
	eng, kv := newTestEngine(t)
	seedKeys(t, kv, 10)

	n, err := eng.GetKeysCount(context.Background(), types.ScanRange{
		Start: []byte("k003"),
		End:   []byte("k007"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}

func TestCompareKey(t *testing.T) {
	eng, _ := newTestEngine(t)
	require.Negative(t, eng.CompareKey([]byte("a"), []byte("b")))
	require.Zero(t, eng.CompareKey([]byte("a"), []byte("a")))
	require.Positive(t, eng.CompareKey([]byte("b"), []byte("a")))
}
