package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prorata/internal/book"
)

const symbol = "SYM"

func mustFills(t *testing.T, b *book.Book, o book.Order, price int32) []book.Fill {
	t.Helper()
	fills, err := b.AddOrder(o, price)
	require.NoError(t, err)
	return fills
}

// An order with nothing to cross against rests on the book, then a
// cancel removes it cleanly.
func TestRestAndCancel(t *testing.T) {
	b := book.New(symbol)

	fills := mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 10, IsBuy: true}, 100)
	assert.Empty(t, fills)

	price, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int32(100), price)

	snap := b.Snapshot()
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int32(10), snap.Bids[0].Size)

	assert.True(t, b.Cancel(1))
	_, ok = b.BestBid()
	assert.False(t, ok)

	assert.False(t, b.Cancel(1), "second cancel must return false")
}

// An incoming order fully consumes the one resting order at its price.
func TestCleanCrossSingleResting(t *testing.T) {
	b := book.New(symbol)
	mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 10, IsBuy: false}, 100)

	fills := mustFills(t, b, book.Order{ID: 2, Trader: "B", Symbol: symbol, Size: 10, IsBuy: true}, 100)
	require.Len(t, fills, 1)
	assert.Equal(t, book.Fill{
		Symbol:        symbol,
		AggressorSide: book.Buy,
		Size:          10,
		Price:         100,
		RestingTrader: "A",
	}, fills[0])
	assert.Equal(t, "TRADE: SYM BUY 10 @ 100 against A", fills[0].String())

	_, askOk := b.BestAsk()
	_, bidOk := b.BestBid()
	assert.False(t, askOk)
	assert.False(t, bidOk)
}

// A pro-rata split across three resting orders where the floored
// allocations exactly exhaust the incoming size, so no tie-breaker fires.
func TestProRataSplitNoTieBreaker(t *testing.T) {
	b := book.New(symbol)
	mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 50, IsBuy: false}, 100)
	mustFills(t, b, book.Order{ID: 2, Trader: "B", Symbol: symbol, Size: 30, IsBuy: false}, 100)
	mustFills(t, b, book.Order{ID: 3, Trader: "C", Symbol: symbol, Size: 20, IsBuy: false}, 100)

	fills := mustFills(t, b, book.Order{ID: 9, Trader: "X", Symbol: symbol, Size: 40, IsBuy: true}, 100)

	require.Len(t, fills, 3)
	assert.Equal(t, int32(20), fills[0].Size)
	assert.Equal(t, "A", fills[0].RestingTrader)
	assert.False(t, fills[0].TieBreaker)

	assert.Equal(t, int32(12), fills[1].Size)
	assert.Equal(t, "B", fills[1].RestingTrader)

	assert.Equal(t, int32(8), fills[2].Size)
	assert.Equal(t, "C", fills[2].RestingTrader)

	snap := b.Snapshot()
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int32(60), snap.Asks[0].Size) // 30 + 18 + 12 residual
}

// Equal-sized resting orders leave a one-unit remainder after the floored
// pass, which the tie-breaker fill drains against the earliest order.
func TestTieBreakerActivation(t *testing.T) {
	b := book.New(symbol)
	mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 10, IsBuy: false}, 100)
	mustFills(t, b, book.Order{ID: 2, Trader: "B", Symbol: symbol, Size: 10, IsBuy: false}, 100)
	mustFills(t, b, book.Order{ID: 3, Trader: "C", Symbol: symbol, Size: 10, IsBuy: false}, 100)

	fills := mustFills(t, b, book.Order{ID: 9, Trader: "X", Symbol: symbol, Size: 10, IsBuy: true}, 100)

	require.Len(t, fills, 4)
	for i, trader := range []string{"A", "B", "C"} {
		assert.Equal(t, int32(3), fills[i].Size)
		assert.Equal(t, trader, fills[i].RestingTrader)
		assert.False(t, fills[i].TieBreaker)
	}
	assert.Equal(t, int32(1), fills[3].Size)
	assert.Equal(t, "A", fills[3].RestingTrader)
	assert.True(t, fills[3].TieBreaker)
	assert.Equal(t, "TRADE: SYM BUY 1 @ 100 against A (tie-breaker)", fills[3].String())

	snap := b.Snapshot()
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int32(20), snap.Asks[0].Size) // 6 + 7 + 7
}

// An incoming order crosses the best level fully, then spills into the
// next level for its remaining size.
func TestCrossingMultipleLevels(t *testing.T) {
	b := book.New(symbol)
	mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 5, IsBuy: false}, 100)
	mustFills(t, b, book.Order{ID: 2, Trader: "B", Symbol: symbol, Size: 5, IsBuy: false}, 101)

	fills := mustFills(t, b, book.Order{ID: 9, Trader: "X", Symbol: symbol, Size: 8, IsBuy: true}, 101)
	require.Len(t, fills, 2)
	assert.Equal(t, int32(5), fills[0].Size)
	assert.Equal(t, int32(100), fills[0].Price)
	assert.Equal(t, int32(3), fills[1].Size)
	assert.Equal(t, int32(101), fills[1].Price)

	snap := b.Snapshot()
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int32(101), snap.Asks[0].Price)
	assert.Equal(t, int32(2), snap.Asks[0].Size)
}

// An incoming order partially crosses, then its remainder rests on the
// book at its own limit price.
func TestPartialCrossThenRest(t *testing.T) {
	b := book.New(symbol)
	mustFills(t, b, book.Order{ID: 1, Trader: "A", Symbol: symbol, Size: 4, IsBuy: false}, 100)

	fills := mustFills(t, b, book.Order{ID: 9, Trader: "X", Symbol: symbol, Size: 10, IsBuy: true}, 100)
	require.Len(t, fills, 1)
	assert.Equal(t, int32(4), fills[0].Size)

	_, askOk := b.BestAsk()
	assert.False(t, askOk)

	price, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int32(100), price)

	snap := b.Snapshot()
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int32(6), snap.Bids[0].Size)

	assert.True(t, b.Cancel(9))
}

func TestAddOrderValidation(t *testing.T) {
	b := book.New(symbol)

	_, err := b.AddOrder(book.Order{ID: 1, Symbol: symbol, Size: 0, IsBuy: true}, 100)
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	_, err = b.AddOrder(book.Order{ID: 1, Symbol: symbol, Size: 10, IsBuy: true}, -1)
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	_, err = b.AddOrder(book.Order{ID: 1, Symbol: "OTHER", Size: 10, IsBuy: true}, 100)
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	_, err = b.AddOrder(book.Order{ID: 1, Symbol: symbol, Size: 10, IsBuy: true}, 100)
	require.NoError(t, err)

	_, err = b.AddOrder(book.Order{ID: 1, Symbol: symbol, Size: 5, IsBuy: true}, 100)
	assert.ErrorIs(t, err, book.ErrDuplicateOrderID)
}

func TestCancelUnknownID(t *testing.T) {
	b := book.New(symbol)
	assert.False(t, b.Cancel(12345))
}

// TestMassConservation checks that total size submitted always equals
// total size filled plus total size still resting or cancelled, across a
// mixed sequence of resting, crossing, and cancelling orders.
func TestMassConservation(t *testing.T) {
	b := book.New(symbol)

	submitted := int32(0)
	var filled int32
	var cancelledResidual int32

	place := func(id uint64, trader string, size int32, isBuy bool, price int32) {
		submitted += size
		fills, err := b.AddOrder(book.Order{ID: id, Trader: trader, Symbol: symbol, Size: size, IsBuy: isBuy}, price)
		require.NoError(t, err)
		for _, f := range fills {
			filled += f.Size
		}
	}

	place(1, "A", 50, false, 100)
	place(2, "B", 30, false, 100)
	place(3, "C", 20, false, 100)
	place(4, "D", 40, true, 100)
	place(5, "E", 15, true, 99)

	if b.Cancel(5) {
		cancelledResidual += 15
	}

	var resting int32
	snap := b.Snapshot()
	for _, lvl := range snap.Asks {
		resting += lvl.Size
	}
	for _, lvl := range snap.Bids {
		resting += lvl.Size
	}

	assert.Equal(t, submitted, resting+filled+cancelledResidual)
}
