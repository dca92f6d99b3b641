package catalog

import (
	"math"

	"github.com/google/btree"

	"MiniCatalog/internal/money"
)

const DefaultDegree = 8

// entry is a bucket key. Buckets never mutate an entry in place: a price
// change deletes the old key and inserts a new one.
type entry struct {
	price money.Money
	id    int64
}

func entryLess(a, b entry) bool {
	if c := a.price.Compare(b.price); c != 0 {
		return c < 0
	}
	return a.id < b.id
}

type bucket = btree.BTreeG[entry]

// tagIndex maps a tag to the entries of every item carrying it, ordered by
// price then id. A tag is present only while its bucket is non-empty.
type tagIndex struct {
	degree  int
	buckets map[int64]*bucket
}

func newTagIndex(degree int) *tagIndex {
	if degree < 2 {
		degree = DefaultDegree
	}
	return &tagIndex{degree: degree, buckets: make(map[int64]*bucket)}
}

func (x *tagIndex) add(tag int64, e entry) {
	b, ok := x.buckets[tag]
	if !ok {
		b = btree.NewG(x.degree, entryLess)
		x.buckets[tag] = b
	}
	if _, dup := b.ReplaceOrInsert(e); dup {
		panic(invariantf("tag %d: id %d indexed twice at %s", tag, e.id, e.price))
	}
}

// remove drops e from the tag's bucket and reports whether it was there.
func (x *tagIndex) remove(tag int64, e entry) bool {
	b, ok := x.buckets[tag]
	if !ok {
		return false
	}
	if _, found := b.Delete(e); !found {
		return false
	}
	if b.Len() == 0 {
		delete(x.buckets, tag)
	}
	return true
}

// mustRemove is remove for memberships the item table vouches for.
func (x *tagIndex) mustRemove(tag int64, e entry) {
	if !x.remove(tag, e) {
		panic(invariantf("tag %d: missing id %d at %s", tag, e.id, e.price))
	}
}

func (x *tagIndex) rekey(tag int64, old, cur entry) {
	x.mustRemove(tag, old)
	x.add(tag, cur)
}

func (x *tagIndex) has(tag int64, e entry) bool {
	b, ok := x.buckets[tag]
	return ok && b.Has(e)
}

func (x *tagIndex) min(tag int64) (entry, bool) {
	b, ok := x.buckets[tag]
	if !ok {
		return entry{}, false
	}
	return b.Min()
}

func (x *tagIndex) max(tag int64) (entry, bool) {
	b, ok := x.buckets[tag]
	if !ok {
		return entry{}, false
	}
	return b.Max()
}

// countRange counts entries priced within [low, high]. The walk starts at the
// first key not below low and ends at the first key above high.
func (x *tagIndex) countRange(tag int64, low, high money.Money) int {
	b, ok := x.buckets[tag]
	if !ok {
		return 0
	}
	n := 0
	b.AscendGreaterOrEqual(entry{price: low, id: math.MinInt64}, func(e entry) bool {
		if high.Less(e.price) {
			return false
		}
		n++
		return true
	})
	return n
}

func (x *tagIndex) tagCount() int { return len(x.buckets) }
