// Package position reconstructs investment holdings from a buy/sell
// transaction history using FIFO (first-in-first-out) lot matching.
//
// The package is pure computation: it never touches storage, and every
// calculation is an independent replay of one account's history. All
// arithmetic uses exact decimals; rounding happens only when deriving
// average cost and the gain/loss percentage.
package position

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one row of an account's replayable trade history.
// Quantity must be positive and Price non-negative; the transaction
// creation boundary enforces this before anything is persisted.
type Trade struct {
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
	// Date is the calendar date of the trade. RecordedAt breaks ties
	// between trades on the same date, in ingestion order.
	Date       time.Time
	RecordedAt time.Time
}

// Lot is an unconsumed remainder of a single buy. CostPerUnit is fixed
// for the lot's lifetime; only Quantity shrinks as sells consume it.
type Lot struct {
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal
}

// Book is the FIFO queue of open lots for one account. A Book is owned
// by a single computation and discarded afterwards.
type Book struct {
	lots []Lot
}

// Replay builds the lot book by processing trades in chronological order.
// Input ordering is not trusted: trades are stably sorted by date, then by
// RecordedAt, before folding. Buys append a lot, sells consume from the head.
func Replay(trades []Trade) *Book {
	ordered := make([]Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	book := &Book{}
	for _, t := range ordered {
		switch t.Side {
		case SideBuy:
			book.buy(t.Quantity, t.Price)
		case SideSell:
			book.sell(t.Quantity)
		}
	}
	return book
}

func (b *Book) buy(quantity, price decimal.Decimal) {
	b.lots = append(b.lots, Lot{Quantity: quantity, CostPerUnit: price})
}

// sell consumes quantity from the oldest lots first. When the book runs
// out of lots the remainder is dropped; the book never goes negative.
func (b *Book) sell(quantity decimal.Decimal) {
	remaining := quantity
	for remaining.IsPositive() && len(b.lots) > 0 {
		head := &b.lots[0]
		if head.Quantity.LessThanOrEqual(remaining) {
			remaining = remaining.Sub(head.Quantity)
			b.lots = b.lots[1:]
		} else {
			head.Quantity = head.Quantity.Sub(remaining)
			remaining = decimal.Zero
		}
	}
}

// Lots returns the open lots in FIFO order, oldest first.
func (b *Book) Lots() []Lot {
	return b.lots
}

// Quantity is the exact sum of remaining lot quantities.
func (b *Book) Quantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range b.lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// TotalCost is the exact cost basis of the remaining lots.
func (b *Book) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range b.lots {
		total = total.Add(lot.Quantity.Mul(lot.CostPerUnit))
	}
	return total
}

// Valuation is the computed position for one account. The pointer fields
// depend on a market price and stay nil when none is available, which is
// distinct from a zero gain.
type Valuation struct {
	Quantity                  decimal.Decimal
	AverageCost               decimal.Decimal
	TotalCost                 decimal.Decimal
	LastTradedPrice           *decimal.Decimal
	CurrentValue              *decimal.Decimal
	UnrealizedGainLoss        *decimal.Decimal
	UnrealizedGainLossPercent *decimal.Decimal
}

// avgCostScale is the rounding scale for average cost and the gain/loss
// percentage; DivRound rounds half away from zero, matching half-up for
// the non-negative values divided here.
const avgCostScale = 4

// Valuate folds the book into a Valuation, optionally enriched with the
// instrument's last traded price. The second return value is false when
// the account holds nothing (quantity <= 0); such accounts are omitted
// from position results entirely.
func (b *Book) Valuate(lastPrice *decimal.Decimal) (Valuation, bool) {
	quantity := b.Quantity()
	if !quantity.IsPositive() {
		return Valuation{}, false
	}

	totalCost := b.TotalCost()
	v := Valuation{
		Quantity:    quantity,
		AverageCost: totalCost.DivRound(quantity, avgCostScale),
		TotalCost:   totalCost,
	}

	if lastPrice == nil {
		return v, true
	}

	price := *lastPrice
	current := quantity.Mul(price)
	gainLoss := current.Sub(totalCost)
	v.LastTradedPrice = &price
	v.CurrentValue = &current
	v.UnrealizedGainLoss = &gainLoss
	if totalCost.IsPositive() {
		pct := gainLoss.DivRound(totalCost, avgCostScale).Mul(decimal.NewFromInt(100))
		v.UnrealizedGainLossPercent = &pct
	}
	return v, true
}

// Available is the running signed quantity over the full history: buys
// add, sells subtract. It is intentionally not FIFO-aware; total holdings
// are all the sell guard needs, and it must always agree with
// Replay(trades).Quantity() for histories without over-sells.
func Available(trades []Trade) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trades {
		switch t.Side {
		case SideBuy:
			total = total.Add(t.Quantity)
		case SideSell:
			total = total.Sub(t.Quantity)
		}
	}
	return total
}

// OverSellError reports a sell that exceeds current holdings.
type OverSellError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *OverSellError) Error() string {
	return fmt.Sprintf("cannot sell %s: only %s held", e.Requested, e.Available)
}

// CheckSell validates a proposed sell against the existing history and
// returns an *OverSellError when the quantity exceeds current holdings.
func CheckSell(trades []Trade, quantity decimal.Decimal) error {
	available := Available(trades)
	if quantity.GreaterThan(available) {
		return &OverSellError{Requested: quantity, Available: available}
	}
	return nil
}
