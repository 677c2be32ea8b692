package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tradebot/internal/config"
	"tradebot/internal/domain"
	"tradebot/internal/infrastructure/indicators"
	"tradebot/internal/metrics"
)

const rsiPeriod = 14

// Trader runs the buy/sell decision cycle for a single symbol. One Tick is
// one full pass: observe the market, maybe open a lot, close whatever lots
// are both past target and profitable after fees, and emit a chart snapshot.
// Ticks are serialized by the scheduler; Trader itself holds no locks.
type Trader struct {
	cfg      *config.Config
	venue    domain.Venue
	orders   domain.OrderRepository
	notifier *Notifier
	log      *logrus.Logger

	margin    float64
	criterion domain.EntryCriterion
}

func NewTrader(cfg *config.Config, venue domain.Venue, orders domain.OrderRepository, notifier *Notifier, log *logrus.Logger) *Trader {
	return &Trader{
		cfg:       cfg,
		venue:     venue,
		orders:    orders,
		notifier:  notifier,
		log:       log,
		margin:    cfg.OrderMargin(),
		criterion: domain.EntryCriterion(cfg.EntryCriterion),
	}
}

// Init checks the configured exit margin against the venue's current fee
// rates. A margin at or below the round-trip fee can never net a profit, so
// it is widened to fees plus one percentage point before the first tick.
func (t *Trader) Init(ctx context.Context) error {
	fees, err := t.venue.GetFees(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching fees at startup")
	}

	if t.margin <= fees.Total() {
		widened := fees.Total() + 0.01
		t.log.WithFields(logrus.Fields{
			"configured": t.margin,
			"fees":       fees.Total(),
			"effective":  widened,
		}).Warn("order margin does not cover fees, widening")
		t.margin = widened
	}

	t.log.WithFields(logrus.Fields{
		"symbol":    t.cfg.Symbol,
		"criterion": t.criterion,
		"margin":    t.margin,
	}).Info("trader initialized")
	return nil
}

// Margin returns the effective exit margin after Init.
func (t *Trader) Margin() float64 { return t.margin }

// Tick executes one decision cycle and returns the snapshot for the chart
// feed. A returned error means the cycle was aborted partway; the next tick
// starts fresh from live state.
func (t *Trader) Tick(ctx context.Context) (*domain.ChartSnapshot, error) {
	price, err := t.venue.GetPrice(ctx, t.cfg.Symbol)
	if err != nil {
		return nil, errors.Wrap(err, "observing price")
	}
	metrics.SetLastPrice(price)

	balance, err := t.venue.GetBalance(ctx, t.cfg.QuoteAsset)
	if err != nil {
		return nil, errors.Wrap(err, "observing balance")
	}

	candles, err := t.venue.GetCandles(ctx, t.cfg.Symbol, t.cfg.Interval, t.cfg.Lookback)
	if err != nil {
		return nil, errors.Wrap(err, "observing candles")
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	support, resistance, err := indicators.SupportResistance(closes)
	if err != nil {
		t.log.WithError(err).Warn("support/resistance unavailable, entries disabled this tick")
	}

	fibLevels := indicators.FibonacciLevels(price)

	rsi, err := indicators.RSI(closes, rsiPeriod)
	if err != nil {
		t.log.WithError(err).Warn("rsi unavailable")
	}

	fees, err := t.venue.GetFees(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching fees")
	}

	logEntry := t.log.WithFields(logrus.Fields{
		"price":      price,
		"balance":    balance,
		"support":    support,
		"resistance": resistance,
		"rsi":        rsi,
	})
	if last := len(candles) - 1; last >= 0 {
		c := candles[last]
		if indicators.IsHammer(c.Open, c.Close, c.Low, c.High) {
			logEntry = logEntry.WithField("hammer", true)
		}
	}
	logEntry.Info("tick")

	if err := t.maybeEnter(ctx, price, balance, support, resistance); err != nil {
		return nil, err
	}

	if err := t.evaluateExits(ctx, price, fees); err != nil {
		return nil, err
	}

	open, err := t.orders.ListOpen(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing open orders")
	}
	metrics.SetOpenOrders(len(open))

	_, position := indicators.Crossover(closes)

	return &domain.ChartSnapshot{
		Time:       time.Now(),
		Symbol:     t.cfg.Symbol,
		Price:      price,
		Candles:    candles,
		SMA50:      indicators.SMA(closes, 50),
		SMA200:     indicators.SMA(closes, 200),
		Position:   position,
		Support:    support,
		Resistance: resistance,
		FibLevels:  fibLevels,
		RSI:        rsi,
		OpenOrders: len(open),
	}, nil
}

// maybeEnter opens a new lot when the configured criterion is met and the
// sized amount clears the venue's minimum. A too-small amount skips the entry
// but never the exit evaluation that follows.
func (t *Trader) maybeEnter(ctx context.Context, price, balance, support, resistance float64) error {
	amountToUse := balance
	if balance >= t.cfg.BalanceSafe {
		amountToUse = balance * t.cfg.PercentageToUse()
	}

	if amountToUse < t.cfg.BuyMin {
		t.log.WithFields(logrus.Fields{
			"amount": amountToUse,
			"min":    t.cfg.BuyMin,
		}).Debug("amount below venue minimum, skipping entry")
		return nil
	}

	var target float64
	switch t.criterion {
	case domain.CriterionFibonacci:
		// The entry window is bounded above by the configured buy price and
		// below by the first retracement of that same reference price. A
		// price that has fallen through the retracement is not bought.
		floor := indicators.FibonacciLevels(t.cfg.BuyPrice)[0]
		if !(price <= t.cfg.BuyPrice && price >= floor) {
			return nil
		}
		target = price * (1 + t.margin)
	case domain.CriterionSupportResistance:
		if support == 0 || price > support*(1+t.cfg.FibonacciTolerance()) {
			return nil
		}
		target = resistance
	default:
		return nil
	}

	quantity := amountToUse / price

	receipt, err := t.venue.SubmitBuy(ctx, t.cfg.Symbol, quantity)
	if err != nil {
		return errors.Wrap(err, "submitting buy")
	}

	order, err := t.orders.Insert(ctx, time.Now(), receipt.ExecutedQty, price, target)
	if err != nil {
		// The venue accepted the buy but the ledger has no record of it.
		// Manual reconciliation is required before the bot can sell this lot.
		t.log.WithError(err).WithFields(logrus.Fields{
			"quantity": receipt.ExecutedQty,
			"price":    price,
		}).Error("UNRECORDED POSITION: buy executed but ledger insert failed")
		return errors.Wrap(err, "recording buy")
	}

	metrics.IncOrdersOpened()
	t.log.WithFields(logrus.Fields{
		"orderId":  order.ID,
		"quantity": order.Quantity,
		"price":    order.BuyPrice,
		"target":   order.TargetPrice,
	}).Info("opened order")

	t.notifier.OrderOpened(ctx, t.cfg.Symbol, order)
	return nil
}

// evaluateExits sells every open lot whose target has been reached and whose
// close would net a profit after fees, then closes the sold lots in the
// ledger as one batch.
func (t *Trader) evaluateExits(ctx context.Context, price float64, fees domain.Fees) error {
	open, err := t.orders.ListOpen(ctx)
	if err != nil {
		return errors.Wrap(err, "listing open orders")
	}

	var soldIDs []string
	for _, order := range open {
		if price < order.TargetPrice {
			continue
		}
		if !IsProfitable(order.BuyPrice, price, order.Quantity, fees.Maker, fees.Taker) {
			t.log.WithFields(logrus.Fields{
				"orderId": order.ID,
				"price":   price,
				"target":  order.TargetPrice,
			}).Debug("target reached but not profitable after fees, holding")
			continue
		}

		if _, err := t.venue.SubmitSell(ctx, t.cfg.Symbol, order.Quantity); err != nil {
			return errors.Wrapf(err, "submitting sell for order %s", order.ID)
		}
		soldIDs = append(soldIDs, order.ID)
	}

	if len(soldIDs) == 0 {
		return nil
	}

	result, err := t.orders.CloseBatch(ctx, soldIDs, price, time.Now())
	if err != nil {
		return errors.Wrap(err, "closing orders")
	}

	metrics.AddOrdersClosed(len(result.ClosedIDs))
	metrics.AddRealizedProfit(result.TotalProfit)
	t.log.WithFields(logrus.Fields{
		"closed": len(result.ClosedIDs),
		"price":  price,
		"profit": result.TotalProfit,
	}).Info("closed orders")

	t.notifier.OrdersClosed(ctx, t.cfg.Symbol, result, price)
	return nil
}
