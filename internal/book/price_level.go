package book

import "container/list"

// PriceLevel aggregates the resting orders at one price on one side. It
// preserves insertion order (needed by the pro-rata matcher's tie-break
// rule) and maintains a running sum of resting size so callers never need
// to re-derive it by summing membership.
type PriceLevel struct {
	Price     int32
	TotalSize int32

	orders *list.List
	index  map[uint64]*list.Element
}

func newPriceLevel(price int32) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: list.New(),
		index:  make(map[uint64]*list.Element),
	}
}

// add inserts order by id, preserving insertion order of existing members.
func (l *PriceLevel) add(o *Order) error {
	if _, exists := l.index[o.ID]; exists {
		return ErrDuplicateOrderID
	}
	l.index[o.ID] = l.orders.PushBack(o)
	l.TotalSize += o.Size
	return nil
}

// remove drops id from the level, if present, and returns the removed order.
func (l *PriceLevel) remove(id uint64) (*Order, bool) {
	elem, ok := l.index[id]
	if !ok {
		return nil, false
	}
	o := elem.Value.(*Order)
	l.orders.Remove(elem)
	delete(l.index, id)
	l.TotalSize -= o.Size
	return o, true
}

func (l *PriceLevel) isEmpty() bool {
	return l.orders.Len() == 0
}

// forEach visits resting orders in insertion order. visit may remove the
// order it was just given (via l.remove) without disturbing the rest of
// the pass: the next element is captured before visit runs.
func (l *PriceLevel) forEach(visit func(*Order)) {
	for e := l.orders.Front(); e != nil; {
		next := e.Next()
		visit(e.Value.(*Order))
		e = next
	}
}
