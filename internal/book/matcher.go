package book

import "math"

// Fill is one execution emitted by the matcher. AggressorSide reflects the
// incoming (taker) order's direction, not the resting counterparty's.
type Fill struct {
	Symbol        string
	AggressorSide Side
	Size          int32
	Price         int32
	RestingTrader string
	TieBreaker    bool
}

// matchLevel runs the pro-rata allocator for incoming against every resting
// order in level. It mutates incoming.Size and the resting orders in
// place, removes fully-consumed resting orders from both level and
// locator, and returns the fills it produced in emission order.
//
// ratio is floored per-order on the first pass, which can leave up to
// len(level) units un-allocated; a single tie-breaker fill against the
// resting order with the largest post-pass remainder drains it. Ties in
// remaining size are broken by earliest insertion, since the update below
// uses strict '>'.
func matchLevel(incoming *Order, level *PriceLevel, locator *orderLocator) []Fill {
	if incoming.Size <= 0 || level.TotalSize <= 0 {
		return nil
	}

	var fills []Fill
	available := level.TotalSize
	ratio := float64(incoming.Size) / float64(available)

	var largestRemaining *Order
	var largestRemainingSize int32

	level.forEach(func(r *Order) {
		if incoming.Size <= 0 {
			return
		}

		fill := int32(math.Floor(float64(r.Size) * ratio))
		if fill > r.Size {
			fill = r.Size
		}
		if fill > incoming.Size {
			fill = incoming.Size
		}

		if fill > 0 {
			r.Size -= fill
			level.TotalSize -= fill
			incoming.Size -= fill
			fills = append(fills, Fill{
				Symbol:        incoming.Symbol,
				AggressorSide: sideOf(incoming.IsBuy),
				Size:          fill,
				Price:         level.Price,
				RestingTrader: r.Trader,
			})
		}

		if r.Size > largestRemainingSize {
			largestRemaining = r
			largestRemainingSize = r.Size
		}

		if r.Size == 0 {
			level.remove(r.ID)
			locator.remove(r.ID)
		}
	})

	if incoming.Size > 0 && largestRemaining != nil && largestRemaining.Size > 0 {
		finalFill := incoming.Size
		if largestRemaining.Size < finalFill {
			finalFill = largestRemaining.Size
		}

		largestRemaining.Size -= finalFill
		level.TotalSize -= finalFill
		incoming.Size -= finalFill
		fills = append(fills, Fill{
			Symbol:        incoming.Symbol,
			AggressorSide: sideOf(incoming.IsBuy),
			Size:          finalFill,
			Price:         level.Price,
			RestingTrader: largestRemaining.Trader,
			TieBreaker:    true,
		})

		if largestRemaining.Size == 0 {
			level.remove(largestRemaining.ID)
			locator.remove(largestRemaining.ID)
		}
	}

	return fills
}
