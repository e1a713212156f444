package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/guileen/doclitedb/codec"
	"github.com/guileen/doclitedb/storage"
)

// Writer maintains the entries of one index partition. It is supporting
// infrastructure for consumers and tests; the query core only reads what the
// writer produced.
type Writer struct {
	kv   storage.KV
	meta Metadata
}

func NewWriter(kv storage.KV, meta Metadata) *Writer {
	return &Writer{kv: kv, meta: meta}
}

// NewDocID allocates a fresh document identifier.
func NewDocID() string {
	return uuid.NewString()
}

// Add writes the index entries for one document. An array-valued field fans
// out to one entry per element; fields fan out multiplicatively when several
// are array-valued. Absent fields are stored as the undefined marker so they
// keep a defined position in the key order.
func (w *Writer) Add(ctx context.Context, docID string, doc map[string]any) error {
	keys, err := w.entryKeys(docID, doc)
	if err != nil {
		return err
	}
	batch := w.kv.NewBatch()
	defer batch.Close()
	for _, key := range keys {
		if err := batch.Set(key, []byte(docID)); err != nil {
			return fmt.Errorf("index %d add %s: %w", w.meta.IndexID, docID, err)
		}
	}
	return w.kv.CommitBatch(ctx, batch)
}

// Remove deletes the index entries the given document contributed. The
// caller passes the document as it was indexed.
func (w *Writer) Remove(ctx context.Context, docID string, doc map[string]any) error {
	keys, err := w.entryKeys(docID, doc)
	if err != nil {
		return err
	}
	batch := w.kv.NewBatch()
	defer batch.Close()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return fmt.Errorf("index %d remove %s: %w", w.meta.IndexID, docID, err)
		}
	}
	return w.kv.CommitBatch(ctx, batch)
}

func (w *Writer) entryKeys(docID string, doc map[string]any) ([][]byte, error) {
	if docID == "" {
		return nil, fmt.Errorf("document id must not be empty")
	}

	perField := make([][]codec.Value, len(w.meta.Fields))
	total := 1
	for i, path := range w.meta.Fields {
		values, err := fieldValues(doc, path)
		if err != nil {
			return nil, fmt.Errorf("index %d field %s: %w", w.meta.IndexID, path, err)
		}
		perField[i] = values
		total *= len(values)
	}
	if w.meta.MaxKeysPerItem > 0 && total > w.meta.MaxKeysPerItem {
		return nil, fmt.Errorf("index %d: document %s contributes %d entries, metadata allows %d",
			w.meta.IndexID, docID, total, w.meta.MaxKeysPerItem)
	}

	keys := make([][]byte, 0, total)
	combo := make([]codec.Value, len(perField))
	for i := 0; i < total; i++ {
		rest := i
		for f := len(perField) - 1; f >= 0; f-- {
			n := len(perField[f])
			combo[f] = perField[f][rest%n]
			rest /= n
		}
		key, err := codec.EncodeEntryKey(w.meta.IndexID, combo, docID)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// fieldValues resolves a dotted path within a document to the list of values
// it contributes to the key. Absent paths and empty arrays resolve to the
// undefined marker.
func fieldValues(doc map[string]any, path string) ([]codec.Value, error) {
	raw, ok := lookupPath(doc, path)
	if !ok {
		return []codec.Value{codec.Undefined}, nil
	}
	if arr, isArr := raw.([]any); isArr {
		if len(arr) == 0 {
			return []codec.Value{codec.Undefined}, nil
		}
		values := make([]codec.Value, 0, len(arr))
		for _, el := range arr {
			v, err := codec.FromAny(el)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	v, err := codec.FromAny(raw)
	if err != nil {
		return nil, err
	}
	return []codec.Value{v}, nil
}

func lookupPath(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
