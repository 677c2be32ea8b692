package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"tradebot/internal/config"
	"tradebot/internal/domain"
	"tradebot/internal/repository"
)

// fakeVenue serves canned values and records submissions.
type fakeVenue struct {
	price   float64
	balance float64
	candles []domain.Candle
	fees    domain.Fees

	buyErr  error
	sellErr error

	buys  []float64
	sells []float64
}

func (v *fakeVenue) GetPrice(context.Context, string) (float64, error)   { return v.price, nil }
func (v *fakeVenue) GetBalance(context.Context, string) (float64, error) { return v.balance, nil }
func (v *fakeVenue) GetFees(context.Context) (domain.Fees, error)        { return v.fees, nil }

func (v *fakeVenue) GetCandles(context.Context, string, string, int) ([]domain.Candle, error) {
	return v.candles, nil
}

func (v *fakeVenue) SubmitBuy(_ context.Context, _ string, quantity float64) (*domain.Receipt, error) {
	if v.buyErr != nil {
		return nil, v.buyErr
	}
	v.buys = append(v.buys, quantity)
	return &domain.Receipt{ExecutedQty: quantity, Price: v.price}, nil
}

func (v *fakeVenue) SubmitSell(_ context.Context, _ string, quantity float64) (*domain.Receipt, error) {
	if v.sellErr != nil {
		return nil, v.sellErr
	}
	v.sells = append(v.sells, quantity)
	return &domain.Receipt{ExecutedQty: quantity, Price: v.price}, nil
}

func testCandles(closes ...float64) []domain.Candle {
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{Close: c, Open: c, High: c, Low: c}
	}
	return candles
}

func testConfig() *config.Config {
	return &config.Config{
		Symbol:             "BTCBRL",
		QuoteAsset:         "BRL",
		Interval:           "1h",
		Lookback:           500,
		BuyMin:             25,
		BuyPrice:           100,
		OrderMarginPct:     2,
		PercentageToUsePct: 50,
		BalanceSafe:        1000,
		EntryCriterion:     string(domain.CriterionFibonacci),
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestTrader(cfg *config.Config, venue domain.Venue) (*Trader, *repository.InMemoryOrderRepository) {
	orders := repository.NewInMemoryOrderRepository()
	return NewTrader(cfg, venue, orders, nil, testLogger()), orders
}

func TestInitWidensMargin(t *testing.T) {
	cfg := testConfig()
	cfg.OrderMarginPct = 0.1 // below the 0.2% round-trip fee
	venue := &fakeVenue{fees: domain.Fees{Maker: 0.001, Taker: 0.001}}

	trader, _ := newTestTrader(cfg, venue)
	if err := trader.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := 0.002 + 0.01
	if got := trader.Margin(); got < want-1e-9 || got > want+1e-9 {
		t.Errorf("margin = %v, want %v", got, want)
	}
}

func TestInitKeepsSufficientMargin(t *testing.T) {
	cfg := testConfig() // 2%
	venue := &fakeVenue{fees: domain.Fees{Maker: 0.001, Taker: 0.001}}

	trader, _ := newTestTrader(cfg, venue)
	if err := trader.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := trader.Margin(); got != 0.02 {
		t.Errorf("margin = %v, want 0.02", got)
	}
}

func TestTickEntersAndRecordsOrder(t *testing.T) {
	venue := &fakeVenue{
		price:   95, // below buy_price 100
		balance: 500,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	// Balance below balance_safe is committed whole.
	if len(venue.buys) != 1 {
		t.Fatalf("buys = %d, want 1", len(venue.buys))
	}
	wantQty := 500.0 / 95
	if got := venue.buys[0]; got < wantQty-1e-9 || got > wantQty+1e-9 {
		t.Errorf("buy quantity = %v, want %v", got, wantQty)
	}

	open, _ := orders.ListOpen(context.Background())
	if len(open) != 1 {
		t.Fatalf("open orders = %d, want 1", len(open))
	}
	order := open[0]
	if order.BuyPrice != 95 {
		t.Errorf("buy price = %v, want 95", order.BuyPrice)
	}
	wantTarget := 95 * 1.02
	if order.TargetPrice < wantTarget-1e-9 || order.TargetPrice > wantTarget+1e-9 {
		t.Errorf("target = %v, want %v", order.TargetPrice, wantTarget)
	}
}

func TestTickSizesLargeBalanceByPercentage(t *testing.T) {
	venue := &fakeVenue{
		price:   95,
		balance: 2000, // above balance_safe, 50% committed
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, _ := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(venue.buys) != 1 {
		t.Fatalf("buys = %d, want 1", len(venue.buys))
	}
	wantQty := 1000.0 / 95
	if got := venue.buys[0]; got < wantQty-1e-9 || got > wantQty+1e-9 {
		t.Errorf("buy quantity = %v, want %v", got, wantQty)
	}
}

func TestTickSkipsEntryAboveBuyPrice(t *testing.T) {
	venue := &fakeVenue{
		price:   105, // above buy_price 100
		balance: 500,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(venue.buys) != 0 {
		t.Errorf("buys = %d, want 0", len(venue.buys))
	}
	open, _ := orders.ListOpen(context.Background())
	if len(open) != 0 {
		t.Errorf("open orders = %d, want 0", len(open))
	}
}

func TestTickSkipsEntryBelowFibFloor(t *testing.T) {
	venue := &fakeVenue{
		price:   70, // below 100 * (1 - 0.236) = 76.4
		balance: 500,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(venue.buys) != 0 {
		t.Errorf("buys = %d, want 0 below the retracement floor", len(venue.buys))
	}
	open, _ := orders.ListOpen(context.Background())
	if len(open) != 0 {
		t.Errorf("open orders = %d, want 0", len(open))
	}
}

func TestTickSkipsEntryBelowMinimum(t *testing.T) {
	venue := &fakeVenue{
		price:   95,
		balance: 10, // below buy_min 25
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, _ := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(venue.buys) != 0 {
		t.Errorf("buys = %d, want 0", len(venue.buys))
	}
}

func TestTickBuyFailureLeavesNoRecord(t *testing.T) {
	venue := &fakeVenue{
		price:   95,
		balance: 500,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
		buyErr:  &domain.VenueError{Op: "submit BUY", Err: errors.New("rejected")},
	}
	trader, orders := newTestTrader(testConfig(), venue)

	if _, err := trader.Tick(context.Background()); err == nil {
		t.Fatal("Tick should fail when the buy is rejected")
	}

	open, _ := orders.ListOpen(context.Background())
	if len(open) != 0 {
		t.Errorf("open orders = %d, want 0 after rejected buy", len(open))
	}
}

func TestTickClosesProfitableOrdersAtTarget(t *testing.T) {
	venue := &fakeVenue{
		price:   105,
		balance: 10, // too small to enter, exits only
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(testConfig(), venue)

	ctx := context.Background()
	reached, _ := orders.Insert(ctx, time.Now(), 1, 95, 96.9)   // target reached
	waiting, _ := orders.Insert(ctx, time.Now(), 1, 104, 106.1) // target above price

	if _, err := trader.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(venue.sells) != 1 {
		t.Fatalf("sells = %d, want 1", len(venue.sells))
	}

	open, _ := orders.ListOpen(ctx)
	if len(open) != 1 || open[0].ID != waiting.ID {
		t.Fatalf("expected only the unreached order to stay open, got %d", len(open))
	}

	closed, _ := orders.ListClosed(ctx, time.Time{})
	if len(closed) != 1 || closed[0].ID != reached.ID {
		t.Fatalf("expected the reached order to be closed")
	}
	if closed[0].Profit == nil || *closed[0].Profit != 10 {
		t.Errorf("profit not recorded, got %+v", closed[0].Profit)
	}
}

func TestTickHoldsUnprofitableOrderAtTarget(t *testing.T) {
	venue := &fakeVenue{
		price:   96,
		balance: 10,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
		fees:    domain.Fees{Maker: 0.05, Taker: 0.05}, // fees swallow the 1% gain
	}
	trader, orders := newTestTrader(testConfig(), venue)

	ctx := context.Background()
	orders.Insert(ctx, time.Now(), 1, 95, 95.5)

	if _, err := trader.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if len(venue.sells) != 0 {
		t.Errorf("sells = %d, want 0 when close is unprofitable", len(venue.sells))
	}
	open, _ := orders.ListOpen(ctx)
	if len(open) != 1 {
		t.Errorf("open orders = %d, want 1", len(open))
	}
}

func TestTickSnapshotReflectsState(t *testing.T) {
	venue := &fakeVenue{
		price:   105,
		balance: 10,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(testConfig(), venue)

	ctx := context.Background()
	orders.Insert(ctx, time.Now(), 1, 104, 200) // stays open

	snapshot, err := trader.Tick(ctx)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if snapshot.Price != 105 {
		t.Errorf("snapshot price = %v, want 105", snapshot.Price)
	}
	if snapshot.Support != 90 || snapshot.Resistance != 96 {
		t.Errorf("support/resistance = %v/%v, want 90/96", snapshot.Support, snapshot.Resistance)
	}
	if snapshot.OpenOrders != 1 {
		t.Errorf("open orders = %d, want 1", snapshot.OpenOrders)
	}
	if len(snapshot.Candles) != len(venue.candles) {
		t.Errorf("candles = %d, want %d", len(snapshot.Candles), len(venue.candles))
	}
	if len(snapshot.FibLevels) != 5 {
		t.Errorf("fib levels = %d, want 5", len(snapshot.FibLevels))
	}
}

func TestTickSupportResistanceCriterion(t *testing.T) {
	cfg := testConfig()
	cfg.EntryCriterion = string(domain.CriterionSupportResistance)
	cfg.FibonacciTolerancePct = 1

	venue := &fakeVenue{
		price:   90.5, // within 1% of support 90
		balance: 500,
		candles: testCandles(90, 92, 94, 96, 95, 93, 95, 94, 96, 95, 93, 95, 94, 96, 95),
	}
	trader, orders := newTestTrader(cfg, venue)

	if _, err := trader.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	open, _ := orders.ListOpen(context.Background())
	if len(open) != 1 {
		t.Fatalf("open orders = %d, want 1", len(open))
	}
	// Target is the resistance, not a margin over entry.
	if open[0].TargetPrice != 96 {
		t.Errorf("target = %v, want resistance 96", open[0].TargetPrice)
	}
}
