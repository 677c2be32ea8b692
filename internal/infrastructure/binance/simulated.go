package binance

import (
	"context"

	"github.com/sirupsen/logrus"

	"tradebot/internal/domain"
)

// SimulatedVenue serves fixed price and balance values and turns order
// submissions into log lines. Historical candles still come from the public
// API so indicators run against real data, the same way a live run would.
type SimulatedVenue struct {
	public  *Client
	price   float64
	balance float64
	log     *logrus.Logger
}

func NewSimulatedVenue(public *Client, price, balance float64, log *logrus.Logger) *SimulatedVenue {
	return &SimulatedVenue{public: public, price: price, balance: balance, log: log}
}

func (v *SimulatedVenue) GetPrice(_ context.Context, _ string) (float64, error) {
	return v.price, nil
}

func (v *SimulatedVenue) GetBalance(_ context.Context, _ string) (float64, error) {
	return v.balance, nil
}

func (v *SimulatedVenue) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	candles, err := v.public.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, &domain.VenueError{Op: "get candles", Err: err}
	}
	return candles, nil
}

func (v *SimulatedVenue) GetFees(_ context.Context) (domain.Fees, error) {
	return domain.Fees{}, nil
}

func (v *SimulatedVenue) SubmitBuy(_ context.Context, symbol string, quantity float64) (*domain.Receipt, error) {
	v.log.WithFields(logrus.Fields{"symbol": symbol, "quantity": quantity, "price": v.price}).
		Info("[SIMULATED BUY] order accepted")
	return &domain.Receipt{ExecutedQty: quantity, Price: v.price}, nil
}

func (v *SimulatedVenue) SubmitSell(_ context.Context, symbol string, quantity float64) (*domain.Receipt, error) {
	v.log.WithFields(logrus.Fields{"symbol": symbol, "quantity": quantity, "price": v.price}).
		Info("[SIMULATED SELL] order accepted")
	return &domain.Receipt{ExecutedQty: quantity, Price: v.price}, nil
}

// compile-time check
var _ domain.Venue = (*SimulatedVenue)(nil)
