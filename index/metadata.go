// Package index holds composite index metadata and the entry writer that
// keeps index partitions in sync with documents.
package index

// Metadata describes one composite index. Fields order is the key order and
// therefore the only order the index can be range-scanned in.
type Metadata struct {
	// IndexID is the partition identifier used as the leading key segment.
	IndexID int64
	// Fields lists the indexed dotted field paths in key order.
	Fields []string
	// MaxKeysPerItem is the maximum number of entries one document can
	// contribute. Greater than 1 when an indexed field is array-valued,
	// in which case a range can contain duplicate document ids.
	MaxKeysPerItem int
}

// FieldPosition returns the key position of a dotted field path.
func (m Metadata) FieldPosition(path string) (int, bool) {
	for i, f := range m.Fields {
		if f == path {
			return i, true
		}
	}
	return 0, false
}

// MultiValued reports whether one document can contribute multiple entries.
func (m Metadata) MultiValued() bool {
	return m.MaxKeysPerItem > 1
}
