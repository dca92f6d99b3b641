package catalog

import (
	"errors"
	"fmt"

	"MiniCatalog/internal/money"
)

var ErrItemNotFound = errors.New("item not found")

// Item is a read-only snapshot of one catalog row.
type Item struct {
	ID    int64
	Price money.Money
	Tags  []int64
}

type record struct {
	price money.Money
	tags  []int64
}

func (r *record) key(id int64) entry { return entry{price: r.price, id: id} }

// Catalog is the item table plus the per-tag price index. It is not safe for
// concurrent use; MemStore adds locking.
type Catalog struct {
	items map[int64]*record
	tags  *tagIndex
}

func New(degree int) *Catalog {
	return &Catalog{
		items: make(map[int64]*record),
		tags:  newTagIndex(degree),
	}
}

// Insert adds or updates an item and returns 1 if it was created. On update
// the price is always replaced and the tags only when tags is non-empty.
func (c *Catalog) Insert(id int64, price money.Money, tags []int64) int {
	tags = dedupe(tags)

	r, ok := c.items[id]
	if !ok {
		r = &record{price: price, tags: tags}
		c.items[id] = r
		for _, t := range tags {
			c.tags.add(t, r.key(id))
		}
		return 1
	}

	old := r.key(id)
	oldTags := r.tags
	r.price = price
	if len(tags) > 0 {
		r.tags = tags
	}
	cur := r.key(id)

	keep := tagSet(r.tags)
	for _, t := range oldTags {
		if _, ok := keep[t]; !ok {
			c.tags.mustRemove(t, old)
		}
	}

	had := tagSet(oldTags)
	for _, t := range r.tags {
		_, wasIndexed := had[t]
		switch {
		case !wasIndexed:
			c.tags.add(t, cur)
		case old != cur:
			c.tags.rekey(t, old, cur)
		}
	}
	return 0
}

// Find returns the item's price, or zero if id is unknown.
func (c *Catalog) Find(id int64) money.Money {
	if r, ok := c.items[id]; ok {
		return r.price
	}
	return money.Money{}
}

// Item returns a copy of the row for id.
func (c *Catalog) Item(id int64) (Item, bool) {
	r, ok := c.items[id]
	if !ok {
		return Item{}, false
	}
	return Item{ID: id, Price: r.price, Tags: append([]int64(nil), r.tags...)}, true
}

// Delete removes the item and returns the sum of its tag values.
func (c *Catalog) Delete(id int64) int64 {
	r, ok := c.items[id]
	if !ok {
		return 0
	}
	var sum int64
	key := r.key(id)
	for _, t := range r.tags {
		c.tags.mustRemove(t, key)
		sum += t
	}
	delete(c.items, id)
	return sum
}

func (c *Catalog) FindMinPrice(tag int64) money.Money {
	e, ok := c.tags.min(tag)
	if !ok {
		return money.Money{}
	}
	return e.price
}

// FindMaxPrice looks the owner of the bucket's greatest key up in the item
// table rather than trusting the key's price.
func (c *Catalog) FindMaxPrice(tag int64) money.Money {
	e, ok := c.tags.max(tag)
	if !ok {
		return money.Money{}
	}
	r, ok := c.items[e.id]
	if !ok {
		panic(invariantf("tag %d: max id %d not in item table", tag, e.id))
	}
	return r.price
}

// FindPriceRange counts items carrying tag priced within [low, high].
// An unknown tag counts zero.
func (c *Catalog) FindPriceRange(tag int64, low, high money.Money) int {
	if high.Less(low) {
		return 0
	}
	return c.tags.countRange(tag, low, high)
}

// PriceHike raises the price of every item with id in [lowID, highID] by
// ratePercent, discarding fractional pennies, and returns the total increase.
// Every increase is computed before any price changes, so an overflow leaves
// the catalog untouched.
func (c *Catalog) PriceHike(lowID, highID int64, ratePercent float64) (money.Money, error) {
	if err := money.ValidateRate(ratePercent); err != nil {
		return money.Money{}, err
	}

	type hike struct {
		id  int64
		r   *record
		inc money.Money
	}
	var (
		hikes []hike
		total money.Money
	)
	for id, r := range c.items {
		if id < lowID || id > highID {
			continue
		}
		inc, err := r.price.Increase(ratePercent)
		if err != nil {
			return money.Money{}, fmt.Errorf("item %d: %w", id, err)
		}
		if inc.IsZero() {
			continue
		}
		if total, err = total.AddChecked(inc); err != nil {
			return money.Money{}, err
		}
		hikes = append(hikes, hike{id: id, r: r, inc: inc})
	}

	for _, h := range hikes {
		old := h.r.key(h.id)
		h.r.price = h.r.price.Add(h.inc)
		cur := h.r.key(h.id)
		for _, t := range h.r.tags {
			c.tags.rekey(t, old, cur)
		}
	}
	return total, nil
}

// RemoveNames strips tags from the item's description. Every requested tag
// leaves the tag set; only those indexed for id count toward the sum.
func (c *Catalog) RemoveNames(id int64, tags []int64) (int64, error) {
	r, ok := c.items[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}

	var sum int64
	key := r.key(id)
	drop := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		if _, seen := drop[t]; seen {
			continue
		}
		drop[t] = struct{}{}
		if c.tags.remove(t, key) {
			sum += t
		}
	}

	kept := r.tags[:0]
	for _, t := range r.tags {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	r.tags = kept
	return sum, nil
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) TagCount() int { return c.tags.tagCount() }

func dedupe(tags []int64) []int64 {
	out := make([]int64, 0, len(tags))
	seen := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func tagSet(tags []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return m
}
