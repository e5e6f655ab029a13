package position

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

// trade builds a Trade whose RecordedAt follows the trade date, so input
// order matches economic order unless a test overrides it.
func trade(side Side, quantity, price string, d time.Time) Trade {
	return Trade{
		Side:       side,
		Quantity:   decimal.RequireFromString(quantity),
		Price:      decimal.RequireFromString(price),
		Date:       d,
		RecordedAt: d,
	}
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestReplayFIFO(t *testing.T) {
	t.Run("sell_consumes_oldest_lot_first", func(t *testing.T) {
		// BUY 10 @ 100, BUY 10 @ 120, SELL 15 -> 5 @ 120 remain.
		book := Replay([]Trade{
			trade(SideBuy, "10", "100", day(1)),
			trade(SideBuy, "10", "120", day(2)),
			trade(SideSell, "15", "130", day(3)),
		})

		lots := book.Lots()
		if len(lots) != 1 {
			t.Fatalf("expected 1 remaining lot, got %d", len(lots))
		}
		assertDecimal(t, lots[0].Quantity, "5")
		assertDecimal(t, lots[0].CostPerUnit, "120")
		assertDecimal(t, book.Quantity(), "5")
		assertDecimal(t, book.TotalCost(), "600")
	})

	t.Run("full_sell_then_rebuy", func(t *testing.T) {
		// BUY 10 @ 100, SELL 10, BUY 5 @ 200 -> cost basis is the new lot only.
		book := Replay([]Trade{
			trade(SideBuy, "10", "100", day(1)),
			trade(SideSell, "10", "150", day(2)),
			trade(SideBuy, "5", "200", day(3)),
		})

		assertDecimal(t, book.Quantity(), "5")
		assertDecimal(t, book.TotalCost(), "1000")

		v, ok := book.Valuate(nil)
		if !ok {
			t.Fatal("expected a holding")
		}
		assertDecimal(t, v.AverageCost, "200")
	})

	t.Run("partial_consumption_keeps_cost_per_unit", func(t *testing.T) {
		book := Replay([]Trade{
			trade(SideBuy, "10", "100", day(1)),
			trade(SideSell, "3", "110", day(2)),
			trade(SideSell, "2", "115", day(3)),
		})

		lots := book.Lots()
		if len(lots) != 1 {
			t.Fatalf("expected 1 lot, got %d", len(lots))
		}
		assertDecimal(t, lots[0].Quantity, "5")
		assertDecimal(t, lots[0].CostPerUnit, "100")
	})

	t.Run("later_lot_untouched_while_earlier_has_quantity", func(t *testing.T) {
		book := Replay([]Trade{
			trade(SideBuy, "10", "50", day(1)),
			trade(SideBuy, "10", "60", day(2)),
			trade(SideBuy, "10", "70", day(3)),
			trade(SideSell, "4", "80", day(4)),
		})

		lots := book.Lots()
		if len(lots) != 3 {
			t.Fatalf("expected 3 lots, got %d", len(lots))
		}
		assertDecimal(t, lots[0].Quantity, "6")
		assertDecimal(t, lots[1].Quantity, "10")
		assertDecimal(t, lots[2].Quantity, "10")
	})

	t.Run("fractional_quantities_are_exact", func(t *testing.T) {
		// Repeated fractional trades must conserve quantity exactly;
		// binary floats would drift here.
		trades := []Trade{trade(SideBuy, "1", "10.5", day(1))}
		for i := 0; i < 10; i++ {
			trades = append(trades, trade(SideBuy, "0.1", "10.5", day(2)))
			trades = append(trades, trade(SideSell, "0.1", "11", day(3)))
		}

		book := Replay(trades)
		assertDecimal(t, book.Quantity(), "1")
		assertDecimal(t, book.TotalCost(), "10.5")
	})

	t.Run("unordered_input_is_sorted_before_matching", func(t *testing.T) {
		// Sell arrives first in the slice but dated last.
		book := Replay([]Trade{
			trade(SideSell, "15", "130", day(3)),
			trade(SideBuy, "10", "120", day(2)),
			trade(SideBuy, "10", "100", day(1)),
		})

		lots := book.Lots()
		if len(lots) != 1 {
			t.Fatalf("expected 1 lot, got %d", len(lots))
		}
		assertDecimal(t, lots[0].CostPerUnit, "120")
	})

	t.Run("same_day_ties_break_on_recorded_at", func(t *testing.T) {
		// Two buys and a sell all on the same date: ingestion order decides
		// which lot is oldest.
		d := day(5)
		buyCheap := Trade{Side: SideBuy, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), Date: d, RecordedAt: d.Add(1 * time.Second)}
		buyDear := Trade{Side: SideBuy, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(200), Date: d, RecordedAt: d.Add(2 * time.Second)}
		sell := Trade{Side: SideSell, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(150), Date: d, RecordedAt: d.Add(3 * time.Second)}

		book := Replay([]Trade{sell, buyDear, buyCheap})
		lots := book.Lots()
		if len(lots) != 1 {
			t.Fatalf("expected 1 lot, got %d", len(lots))
		}
		// The earlier-recorded (cheap) lot is consumed first.
		assertDecimal(t, lots[0].CostPerUnit, "200")

		// Swapping ingestion order flips the surviving lot.
		buyCheap.RecordedAt = d.Add(2 * time.Second)
		buyDear.RecordedAt = d.Add(1 * time.Second)
		book = Replay([]Trade{sell, buyDear, buyCheap})
		assertDecimal(t, book.Lots()[0].CostPerUnit, "100")
	})

	t.Run("oversell_clamps_to_empty_book", func(t *testing.T) {
		// The guard prevents this on the write path; replay still must not
		// go negative or panic.
		book := Replay([]Trade{
			trade(SideBuy, "10", "100", day(1)),
			trade(SideSell, "25", "110", day(2)),
		})

		if len(book.Lots()) != 0 {
			t.Fatalf("expected empty book, got %d lots", len(book.Lots()))
		}
		assertDecimal(t, book.Quantity(), "0")
		if _, ok := book.Valuate(nil); ok {
			t.Error("expected no holding for an exhausted book")
		}
	})

	t.Run("replay_is_idempotent", func(t *testing.T) {
		trades := []Trade{
			trade(SideBuy, "3.14159265", "99.9999", day(1)),
			trade(SideBuy, "2.71828182", "101.0001", day(2)),
			trade(SideSell, "1.5", "105", day(3)),
		}

		price := decimal.RequireFromString("110.25")
		first, ok1 := Replay(trades).Valuate(&price)
		second, ok2 := Replay(trades).Valuate(&price)
		if !ok1 || !ok2 {
			t.Fatal("expected holdings from both replays")
		}
		if !first.Quantity.Equal(second.Quantity) ||
			!first.TotalCost.Equal(second.TotalCost) ||
			!first.AverageCost.Equal(second.AverageCost) ||
			!first.CurrentValue.Equal(*second.CurrentValue) ||
			!first.UnrealizedGainLoss.Equal(*second.UnrealizedGainLoss) {
			t.Errorf("replays disagree: %+v vs %+v", first, second)
		}
	})
}

func TestConservation(t *testing.T) {
	// With no rejected sells, sum(buys) - sum(sells) == book quantity,
	// and the running-sum guard agrees with the FIFO book.
	trades := []Trade{
		trade(SideBuy, "10.00000001", "100", day(1)),
		trade(SideSell, "2.5", "101", day(2)),
		trade(SideBuy, "0.49999999", "102", day(3)),
		trade(SideSell, "3", "103", day(4)),
		trade(SideBuy, "7", "104", day(5)),
	}

	net := decimal.Zero
	for _, tr := range trades {
		if tr.Side == SideBuy {
			net = net.Add(tr.Quantity)
		} else {
			net = net.Sub(tr.Quantity)
		}
	}

	book := Replay(trades)
	if !book.Quantity().Equal(net) {
		t.Errorf("book quantity %s != net %s", book.Quantity(), net)
	}
	if !Available(trades).Equal(net) {
		t.Errorf("available %s != net %s", Available(trades), net)
	}
}

func TestValuate(t *testing.T) {
	t.Run("with_price", func(t *testing.T) {
		// quantity=5, totalCost=600, price=150 -> value 750, gain 150, 25%.
		book := Replay([]Trade{
			trade(SideBuy, "10", "100", day(1)),
			trade(SideBuy, "10", "120", day(2)),
			trade(SideSell, "15", "130", day(3)),
		})

		price := decimal.NewFromInt(150)
		v, ok := book.Valuate(&price)
		if !ok {
			t.Fatal("expected a holding")
		}
		assertDecimal(t, v.Quantity, "5")
		assertDecimal(t, v.TotalCost, "600")
		assertDecimal(t, v.AverageCost, "120")
		assertDecimal(t, *v.CurrentValue, "750")
		assertDecimal(t, *v.UnrealizedGainLoss, "150")
		assertDecimal(t, *v.UnrealizedGainLossPercent, "25")
	})

	t.Run("without_price", func(t *testing.T) {
		book := Replay([]Trade{trade(SideBuy, "5", "100", day(1))})

		v, ok := book.Valuate(nil)
		if !ok {
			t.Fatal("expected a holding")
		}
		if v.LastTradedPrice != nil || v.CurrentValue != nil ||
			v.UnrealizedGainLoss != nil || v.UnrealizedGainLossPercent != nil {
			t.Error("expected nil price-dependent fields when no price is available")
		}
		assertDecimal(t, v.TotalCost, "500")
	})

	t.Run("zero_cost_basis_omits_percent", func(t *testing.T) {
		book := Replay([]Trade{trade(SideBuy, "5", "0", day(1))})

		price := decimal.NewFromInt(10)
		v, ok := book.Valuate(&price)
		if !ok {
			t.Fatal("expected a holding")
		}
		assertDecimal(t, *v.UnrealizedGainLoss, "50")
		if v.UnrealizedGainLossPercent != nil {
			t.Errorf("expected nil percent for zero cost basis, got %s", v.UnrealizedGainLossPercent)
		}
	})

	t.Run("average_cost_rounds_half_up", func(t *testing.T) {
		// 100 / 3 = 33.33333... -> 33.3333; 0.00005 ties round up.
		book := Replay([]Trade{trade(SideBuy, "3", "33.333333333", day(1))})
		v, _ := book.Valuate(nil)
		assertDecimal(t, v.AverageCost, "33.3333")

		book = Replay([]Trade{trade(SideBuy, "2", "0.00005", day(1))})
		v, _ = book.Valuate(nil)
		assertDecimal(t, v.AverageCost, "0.0001")
	})

	t.Run("empty_history", func(t *testing.T) {
		if _, ok := Replay(nil).Valuate(nil); ok {
			t.Error("expected no holding for empty history")
		}
	})
}

func TestCheckSell(t *testing.T) {
	t.Run("rejects_oversell_with_available_quantity", func(t *testing.T) {
		trades := []Trade{trade(SideBuy, "10", "50", day(1))}

		err := CheckSell(trades, decimal.NewFromInt(11))
		overSell, ok := err.(*OverSellError)
		if !ok {
			t.Fatalf("expected *OverSellError, got %T", err)
		}
		assertDecimal(t, overSell.Available, "10")
		assertDecimal(t, overSell.Requested, "11")
	})

	t.Run("accepts_sell_of_entire_holding", func(t *testing.T) {
		trades := []Trade{
			trade(SideBuy, "10", "50", day(1)),
			trade(SideSell, "4", "55", day(2)),
		}

		if err := CheckSell(trades, decimal.NewFromInt(6)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("guard_agrees_with_fifo_replay", func(t *testing.T) {
		// A sell the guard accepts never exhausts the book mid-match,
		// and a rejected one always would.
		trades := []Trade{
			trade(SideBuy, "5", "100", day(1)),
			trade(SideSell, "2", "105", day(2)),
			trade(SideBuy, "1.25", "110", day(3)),
		}
		available := Available(trades) // 4.25

		accepted := append([]Trade{}, trades...)
		accepted = append(accepted, trade(SideSell, "4.25", "120", day(4)))
		if !Replay(accepted).Quantity().IsZero() {
			t.Error("accepted sell should consume the book exactly")
		}

		if err := CheckSell(trades, available.Add(decimal.RequireFromString("0.00000001"))); err == nil {
			t.Error("expected rejection just above available quantity")
		}
	})
}
