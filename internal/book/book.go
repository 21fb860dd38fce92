package book

import "fmt"

// Book is the facade over one symbol's bid and ask SideIndex plus the
// shared OrderLocator. It owns the crossing loop, the rest-on-book path,
// cancellation, and snapshotting. All mutating methods assume a single
// writer; callers that need concurrent reads must supply their own
// reader/writer discipline around Snapshot/BestBid/BestAsk.
type Book struct {
	Symbol string

	bids    *SideIndex
	asks    *SideIndex
	locator *orderLocator
	sink    TradeSink
}

// Option configures a Book at construction time.
type Option func(*Book)

// WithTradeSink routes every fill emitted by AddOrder to sink, in addition
// to the fills already returned to the caller.
func WithTradeSink(sink TradeSink) Option {
	return func(b *Book) { b.sink = sink }
}

func New(symbol string, opts ...Option) *Book {
	b := &Book{
		Symbol:  symbol,
		bids:    newSideIndex(true),
		asks:    newSideIndex(false),
		locator: newOrderLocator(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddOrder submits order at price. Validation failure leaves the book
// state unchanged. On success it returns every fill the crossing loop
// produced, in emission order; any residual size rests on the book.
func (b *Book) AddOrder(order Order, price int32) ([]Fill, error) {
	if order.Size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidOrder, order.Size)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price %d must be non-negative", ErrInvalidOrder, price)
	}
	if order.Symbol != b.Symbol {
		return nil, fmt.Errorf("%w: symbol %q does not match book %q", ErrInvalidOrder, order.Symbol, b.Symbol)
	}
	if _, tracked := b.locator.lookup(order.ID); tracked {
		return nil, fmt.Errorf("%w: id %d", ErrDuplicateOrderID, order.ID)
	}

	incoming := order // local mutable copy; Size shrinks as the crossing loop fills it.

	var fills []Fill
	if incoming.IsBuy {
		fills = b.cross(&incoming, b.asks, func(levelPrice int32) bool { return levelPrice <= price })
		if incoming.Size > 0 {
			b.restOrder(&incoming, price, Buy, b.bids)
		}
	} else {
		fills = b.cross(&incoming, b.bids, func(levelPrice int32) bool { return levelPrice >= price })
		if incoming.Size > 0 {
			b.restOrder(&incoming, price, Sell, b.asks)
		}
	}

	if b.sink != nil {
		for _, f := range fills {
			b.sink.Emit(f)
		}
	}
	return fills, nil
}

// cross repeatedly consumes the best level on the opposite side while it
// crosses and incoming still has size left.
func (b *Book) cross(incoming *Order, opposite *SideIndex, crosses func(int32) bool) []Fill {
	var all []Fill
	for incoming.Size > 0 {
		levelPrice, ok := opposite.bestPrice()
		if !ok || !crosses(levelPrice) {
			break
		}
		level, ok := opposite.level(levelPrice)
		if !ok {
			// bestPrice() must never outlive an empty level; a miss here
			// means that invariant broke upstream.
			break
		}

		all = append(all, matchLevel(incoming, level, b.locator)...)

		if level.isEmpty() {
			opposite.removeLevel(levelPrice)
		}
	}
	return all
}

// restOrder inserts order's residual into same at price and registers it
// with the locator. order must not already be tracked.
func (b *Book) restOrder(order *Order, price int32, side Side, same *SideIndex) {
	level := same.getOrCreate(price)
	_ = level.add(order)      // uniqueness already verified in AddOrder
	_ = b.locator.insert(order.ID, side, price)
}

// Cancel removes id from the book, wherever it currently rests. Returns
// false if id is unknown (already filled, already cancelled, or never
// submitted) without changing state.
func (b *Book) Cancel(id uint64) bool {
	entry, ok := b.locator.remove(id)
	if !ok {
		return false
	}

	side := b.asks
	if entry.side == Buy {
		side = b.bids
	}

	level, ok := side.level(entry.price)
	if !ok {
		return false
	}

	level.remove(id)
	if level.isEmpty() {
		side.removeLevel(entry.price)
	}
	return true
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (int32, bool) { return b.bids.bestPrice() }

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (int32, bool) { return b.asks.bestPrice() }
