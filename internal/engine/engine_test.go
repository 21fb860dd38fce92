package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prorata/internal/book"
	"prorata/internal/engine"
)

type recordingSink struct {
	fills []book.Fill
}

func (r *recordingSink) Emit(f book.Fill) {
	r.fills = append(r.fills, f)
}

func TestEngineRoutesBySymbol(t *testing.T) {
	sink := &recordingSink{}
	e := engine.New(sink)

	_, err := e.PlaceOrder(book.Order{ID: 1, Trader: "A", Symbol: "AAPL", Size: 10, IsBuy: false}, 100)
	require.NoError(t, err)
	_, err = e.PlaceOrder(book.Order{ID: 2, Trader: "B", Symbol: "MSFT", Size: 10, IsBuy: false}, 200)
	require.NoError(t, err)

	bid, ask, bidOk, askOk, err := e.BestBidAsk("AAPL")
	require.NoError(t, err)
	assert.False(t, bidOk)
	assert.True(t, askOk)
	assert.Equal(t, int32(100), ask)
	_ = bid

	_, _, _, _, err = e.BestBidAsk("GOOG")
	assert.Error(t, err)
}

func TestEngineCrossAndTradeStream(t *testing.T) {
	sink := &recordingSink{}
	e := engine.New(sink)

	_, err := e.PlaceOrder(book.Order{ID: 1, Trader: "A", Symbol: "AAPL", Size: 10, IsBuy: false}, 100)
	require.NoError(t, err)

	fills, err := e.PlaceOrder(book.Order{ID: 2, Trader: "B", Symbol: "AAPL", Size: 10, IsBuy: true}, 100)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Len(t, sink.fills, 1)
	assert.Equal(t, fills[0], sink.fills[0])
}

func TestEngineCancel(t *testing.T) {
	e := engine.New(nil)
	_, err := e.PlaceOrder(book.Order{ID: 1, Trader: "A", Symbol: "AAPL", Size: 10, IsBuy: true}, 100)
	require.NoError(t, err)

	assert.True(t, e.Cancel("AAPL", 1))
	assert.False(t, e.Cancel("AAPL", 1))
	assert.False(t, e.Cancel("MSFT", 1))
}

func TestEngineSnapshotUnknownSymbol(t *testing.T) {
	e := engine.New(nil)
	_, err := e.Snapshot("AAPL")
	assert.Error(t, err)
}
