// backend/src/services/dedup.go
package services

// dedupIndex answers "has this natural key been seen before?" against the
// snapshot of already-persisted keys plus keys accepted earlier in the same
// batch, so intra-file duplicates are caught too. An empty key means the
// profile supplies no natural key; such rows are never considered duplicates
// of each other.
type dedupIndex struct {
	existing map[string]struct{}
	batch    map[string]struct{}
}

func newDedupIndex(existing map[string]struct{}) *dedupIndex {
	if existing == nil {
		existing = make(map[string]struct{})
	}
	return &dedupIndex{
		existing: existing,
		batch:    make(map[string]struct{}),
	}
}

func (d *dedupIndex) Seen(key string) bool {
	if key == "" {
		return false
	}
	if _, ok := d.existing[key]; ok {
		return true
	}
	_, ok := d.batch[key]
	return ok
}

func (d *dedupIndex) Add(key string) {
	if key == "" {
		return
	}
	d.batch[key] = struct{}{}
}
