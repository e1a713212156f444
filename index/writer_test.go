package index

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/guileen/doclitedb/codec"
	"github.com/guileen/doclitedb/storage"
)

func newTestKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.NewPebbleKV(storage.TestPebbleConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func partitionKeys(t *testing.T, kv storage.KV, indexID int64) map[string]string {
	t.Helper()
	iter := kv.NewIterator(&storage.IteratorOptions{
		LowerBound: codec.PartitionStart(indexID),
		UpperBound: codec.PartitionEnd(indexID),
	})
	defer iter.Close()

	out := make(map[string]string)
	for iter.Next() {
		out[string(iter.Key())] = string(iter.Value())
	}
	require.NoError(t, iter.Error())
	return out
}

func TestWriterAddSingleValued(t *testing.T) {
	kv := newTestKV(t)
	meta := Metadata{IndexID: 1, Fields: []string{"a", "b.c"}, MaxKeysPerItem: 1}
	w := NewWriter(kv, meta)

	err := w.Add(context.Background(), "doc1", map[string]any{
		"a": "x",
		"b": map[string]any{"c": 5},
	})
	require.NoError(t, err)

	keys := partitionKeys(t, kv, meta.IndexID)
	require.Len(t, keys, 1)
	for _, docID := range keys {
		require.Equal(t, "doc1", docID)
	}
}

func TestWriterAbsentFieldStoredAsUndefined(t *testing.T) {
	kv := newTestKV(t)
	meta := Metadata{IndexID: 2, Fields: []string{"a", "missing"}, MaxKeysPerItem: 1}
	w := NewWriter(kv, meta)

	require.NoError(t, w.Add(context.Background(), "doc1", map[string]any{"a": 1}))

	keys := partitionKeys(t, kv, meta.IndexID)
	require.Len(t, keys, 1)
	for k := range keys {
		values, docID, err := codec.DecodeEntryValues([]byte(k), len(meta.Fields))
		require.NoError(t, err)
		require.Equal(t, "doc1", docID)
		require.True(t, values[1].IsUndefined())
	}
}

func TestWriterArrayFanOut(t *testing.T) {
	kv := newTestKV(t)
	meta := Metadata{IndexID: 3, Fields: []string{"tags"}, MaxKeysPerItem: 4}
	w := NewWriter(kv, meta)

	doc := map[string]any{"tags": []any{"go", "kv", "db"}}
	require.NoError(t, w.Add(context.Background(), "doc1", doc))
	require.Len(t, partitionKeys(t, kv, meta.IndexID), 3)

	require.NoError(t, w.Remove(context.Background(), "doc1", doc))
	require.Empty(t, partitionKeys(t, kv, meta.IndexID))
}

func TestWriterFanOutBudget(t *testing.T) {
	kv := newTestKV(t)
	meta := Metadata{IndexID: 4, Fields: []string{"tags"}, MaxKeysPerItem: 2}
	w := NewWriter(kv, meta)

	err := w.Add(context.Background(), "doc1", map[string]any{
		"tags": []any{"a", "b", "c"},
	})
	require.Error(t, err)
	require.Empty(t, partitionKeys(t, kv, meta.IndexID))
}

func TestWriterEmptyArrayIsUndefined(t *testing.T) {
	kv := newTestKV(t)
	meta := Metadata{IndexID: 5, Fields: []string{"tags"}, MaxKeysPerItem: 4}
	w := NewWriter(kv, meta)

	require.NoError(t, w.Add(context.Background(), "doc1", map[string]any{"tags": []any{}}))

	keys := partitionKeys(t, kv, meta.IndexID)
	require.Len(t, keys, 1)
	for k := range keys {
		values, _, err := codec.DecodeEntryValues([]byte(k), 1)
		require.NoError(t, err)
		require.True(t, values[0].IsUndefined())
	}
}

func TestNewDocID(t *testing.T) {
	id := NewDocID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewDocID())
}
