package book

import (
	"fmt"
	"io"
	"sync"
)

// TradeSink receives every fill a Book emits, in emission order. A Book's
// own AddOrder call already returns the fills it produced; a TradeSink is
// for collaborators that want a standing stream of them.
type TradeSink interface {
	Emit(Fill)
}

// String renders f in the trade line format.
func (f Fill) String() string {
	if f.TieBreaker {
		return fmt.Sprintf("TRADE: %s %s %d @ %d against %s (tie-breaker)",
			f.Symbol, f.AggressorSide, f.Size, f.Price, f.RestingTrader)
	}
	return fmt.Sprintf("TRADE: %s %s %d @ %d against %s",
		f.Symbol, f.AggressorSide, f.Size, f.Price, f.RestingTrader)
}

// LineSink writes each fill as one formatted line to w. Safe for
// concurrent Emit calls from multiple books sharing one sink.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) Emit(f Fill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, f.String())
}
