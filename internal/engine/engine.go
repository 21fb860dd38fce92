// Package engine routes orders to the single-symbol book.Book for their
// instrument, owning one Book per symbol and creating them lazily on
// first use.
package engine

import (
	"fmt"
	"sync"

	"prorata/internal/book"
)

// Engine enforces a single-writer contract: every mutating call takes
// engine's own lock for its entire duration, so two goroutines (e.g. two
// ingress workers) can never drive the same Book's crossing loop
// concurrently.
type Engine struct {
	mu    sync.Mutex
	books map[string]*book.Book
	sink  book.TradeSink
}

// New creates an Engine. sink, if non-nil, is attached to every book the
// engine creates, so all symbols share one trade stream.
func New(sink book.TradeSink) *Engine {
	return &Engine{
		books: make(map[string]*book.Book),
		sink:  sink,
	}
}

func (e *Engine) bookForLocked(symbol string) *book.Book {
	b, ok := e.books[symbol]
	if ok {
		return b
	}
	var opts []book.Option
	if e.sink != nil {
		opts = append(opts, book.WithTradeSink(e.sink))
	}
	b = book.New(symbol, opts...)
	e.books[symbol] = b
	return b
}

// PlaceOrder routes order to its symbol's book, creating that book on
// first use.
func (e *Engine) PlaceOrder(order book.Order, price int32) ([]book.Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bookForLocked(order.Symbol).AddOrder(order, price)
}

// Cancel removes id from symbol's book. Returns false if the symbol has
// never been seen or the id is unknown.
func (e *Engine) Cancel(symbol string, id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.books[symbol]
	if !ok {
		return false
	}
	return b.Cancel(id)
}

// Snapshot returns the resting-liquidity snapshot for symbol.
func (e *Engine) Snapshot(symbol string) (book.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.books[symbol]
	if !ok {
		return book.Snapshot{}, fmt.Errorf("engine: unknown symbol %q", symbol)
	}
	return b.Snapshot(), nil
}

// BestBidAsk returns symbol's current best bid and ask, each absent if
// that side is empty. Returns an error if the symbol is unknown.
func (e *Engine) BestBidAsk(symbol string) (bid, ask int32, bidOk, askOk bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.books[symbol]
	if !ok {
		return 0, 0, false, false, fmt.Errorf("engine: unknown symbol %q", symbol)
	}
	bid, bidOk = b.BestBid()
	ask, askOk = b.BestAsk()
	return bid, ask, bidOk, askOk, nil
}
