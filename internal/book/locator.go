package book

// locatorEntry carries a back-reference by lookup only — never an
// ownership handle, so it holds no pointer back into the PriceLevel.
type locatorEntry struct {
	side  Side
	price int32
}

// orderLocator maps order id to the side/price at which it currently
// rests, giving O(1) cancel-by-id without probing both sides.
type orderLocator struct {
	entries map[uint64]locatorEntry
}

func newOrderLocator() *orderLocator {
	return &orderLocator{entries: make(map[uint64]locatorEntry)}
}

func (l *orderLocator) insert(id uint64, side Side, price int32) error {
	if _, exists := l.entries[id]; exists {
		return ErrDuplicateOrderID
	}
	l.entries[id] = locatorEntry{side: side, price: price}
	return nil
}

func (l *orderLocator) lookup(id uint64) (locatorEntry, bool) {
	e, ok := l.entries[id]
	return e, ok
}

func (l *orderLocator) remove(id uint64) (locatorEntry, bool) {
	e, ok := l.entries[id]
	if ok {
		delete(l.entries, id)
	}
	return e, ok
}
