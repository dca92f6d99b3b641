package catalog

import (
	"errors"
	"fmt"
)

var ErrInvariant = errors.New("catalog invariant violated")

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}

// Verify checks that the item table and the tag index agree: every tag of
// every item holds exactly (id, current price), every bucket entry belongs to
// an item that carries the tag, and no bucket is empty.
func (c *Catalog) Verify() error {
	indexed := 0
	for id, r := range c.items {
		seen := make(map[int64]struct{}, len(r.tags))
		for _, t := range r.tags {
			if _, dup := seen[t]; dup {
				return invariantf("id %d: tag %d listed twice", id, t)
			}
			seen[t] = struct{}{}
			if !c.tags.has(t, r.key(id)) {
				return invariantf("id %d: tag %d bucket lacks entry at %s", id, t, r.price)
			}
			indexed++
		}
	}

	total := 0
	for t, b := range c.tags.buckets {
		if b.Len() == 0 {
			return invariantf("tag %d: empty bucket", t)
		}
		var err error
		b.Ascend(func(e entry) bool {
			r, ok := c.items[e.id]
			if !ok {
				err = invariantf("tag %d: id %d not in item table", t, e.id)
				return false
			}
			if r.price != e.price {
				err = invariantf("tag %d: id %d stale price %s, item has %s", t, e.id, e.price, r.price)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		total += b.Len()
	}

	if total != indexed {
		return invariantf("index holds %d entries, item tags account for %d", total, indexed)
	}
	return nil
}
