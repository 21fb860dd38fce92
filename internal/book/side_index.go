package book

import "github.com/tidwall/btree"

// SideIndex maps price to PriceLevel for one side of the book, ordered so
// that the best price (max for bids, min for asks) is a BTreeG.Min() away —
// O(log n). PriceLevel is stored by pointer, so mutating a level fetched
// from the index (e.g. during matching) mutates the tree's own copy; no
// Set-back is required.
type SideIndex struct {
	levels *btree.BTreeG[*PriceLevel]
}

func newSideIndex(isBid bool) *SideIndex {
	var less func(a, b *PriceLevel) bool
	if isBid {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	} else {
		less = func(a, b *PriceLevel) bool { return a.Price < b.Price }
	}
	return &SideIndex{levels: btree.NewBTreeG(less)}
}

// bestPrice returns the max key (bids) or min key (asks); absent when empty.
func (s *SideIndex) bestPrice() (int32, bool) {
	lvl, ok := s.levels.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

func (s *SideIndex) level(price int32) (*PriceLevel, bool) {
	return s.levels.Get(&PriceLevel{Price: price})
}

// getOrCreate returns the level at price, creating it lazily if absent.
func (s *SideIndex) getOrCreate(price int32) *PriceLevel {
	if lvl, ok := s.levels.Get(&PriceLevel{Price: price}); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.levels.Set(lvl)
	return lvl
}

// removeLevel drops price from the index. Callers must only do this once
// the level is empty.
func (s *SideIndex) removeLevel(price int32) {
	s.levels.Delete(&PriceLevel{Price: price})
}

// orderedLevels returns every (necessarily non-empty) level in the side's
// natural price order, for snapshot/print paths only.
func (s *SideIndex) orderedLevels() []*PriceLevel {
	out := make([]*PriceLevel, 0, s.levels.Len())
	s.levels.Scan(func(lvl *PriceLevel) bool {
		out = append(out, lvl)
		return true
	})
	return out
}
