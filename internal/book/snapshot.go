package book

import (
	"fmt"
	"strings"
)

// LevelSnapshot is the aggregated resting size at one price.
type LevelSnapshot struct {
	Price int32
	Size  int32
}

// Snapshot is a point-in-time view of resting liquidity on both sides,
// asks ascending and bids descending, containing only non-empty levels.
type Snapshot struct {
	Symbol string
	Asks   []LevelSnapshot
	Bids   []LevelSnapshot
}

// Snapshot returns the current resting liquidity aggregated by price
// level. Concurrent with writes only under the embedder's own
// reader/writer discipline.
func (b *Book) Snapshot() Snapshot {
	snap := Snapshot{Symbol: b.Symbol}
	for _, lvl := range b.asks.orderedLevels() {
		snap.Asks = append(snap.Asks, LevelSnapshot{Price: lvl.Price, Size: lvl.TotalSize})
	}
	for _, lvl := range b.bids.orderedLevels() {
		snap.Bids = append(snap.Bids, LevelSnapshot{Price: lvl.Price, Size: lvl.TotalSize})
	}
	return snap
}

// String renders the snapshot in a line-oriented dump format.
func (s Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Order Book for %s ===\n", s.Symbol)
	sb.WriteString("Asks:\n")
	for _, lvl := range s.Asks {
		fmt.Fprintf(&sb, "Price %d | Size %d\n", lvl.Price, lvl.Size)
	}
	sb.WriteString("Bids:\n")
	for _, lvl := range s.Bids {
		fmt.Fprintf(&sb, "Price %d | Size %d\n", lvl.Price, lvl.Size)
	}
	return sb.String()
}
