package binance

import (
	"context"
	"fmt"

	"tradebot/internal/domain"
)

// LiveVenue adapts the public and signed Binance clients to the engine's
// venue capability. Every failure comes back as a *domain.VenueError so the
// scheduler can classify it at the tick boundary.
type LiveVenue struct {
	public   *Client
	trading  *TradingClient
	feeScale float64
}

// NewLiveVenue wires the two clients. feeScale is the divisor applied to the
// commission integers Binance reports (10000 turns 10 into 0.001).
func NewLiveVenue(public *Client, trading *TradingClient, feeScale float64) *LiveVenue {
	return &LiveVenue{public: public, trading: trading, feeScale: feeScale}
}

func (v *LiveVenue) GetPrice(ctx context.Context, symbol string) (float64, error) {
	price, err := v.public.GetPrice(ctx, symbol)
	if err != nil {
		return 0, &domain.VenueError{Op: "get price", Err: err}
	}
	return price, nil
}

func (v *LiveVenue) GetBalance(ctx context.Context, asset string) (float64, error) {
	account, err := v.trading.GetAccount(ctx)
	if err != nil {
		return 0, &domain.VenueError{Op: "get balance", Err: err}
	}
	balance, ok := account.Balances[asset]
	if !ok {
		return 0, &domain.VenueError{Op: "get balance", Err: fmt.Errorf("asset %s not in account", asset)}
	}
	return balance, nil
}

func (v *LiveVenue) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	candles, err := v.public.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, &domain.VenueError{Op: "get candles", Err: err}
	}
	return candles, nil
}

func (v *LiveVenue) GetFees(ctx context.Context) (domain.Fees, error) {
	account, err := v.trading.GetAccount(ctx)
	if err != nil {
		return domain.Fees{}, &domain.VenueError{Op: "get fees", Err: err}
	}
	return domain.Fees{
		Maker: float64(account.MakerCommission) / v.feeScale,
		Taker: float64(account.TakerCommission) / v.feeScale,
	}, nil
}

func (v *LiveVenue) SubmitBuy(ctx context.Context, symbol string, quantity float64) (*domain.Receipt, error) {
	return v.submit(ctx, symbol, "BUY", quantity)
}

func (v *LiveVenue) SubmitSell(ctx context.Context, symbol string, quantity float64) (*domain.Receipt, error) {
	return v.submit(ctx, symbol, "SELL", quantity)
}

func (v *LiveVenue) submit(ctx context.Context, symbol, side string, quantity float64) (*domain.Receipt, error) {
	resp, err := v.trading.PlaceMarketOrder(ctx, symbol, side, quantity)
	if err != nil {
		return nil, &domain.VenueError{Op: "submit " + side, Err: err}
	}
	return &domain.Receipt{
		VenueOrderID: resp.OrderID,
		ExecutedQty:  resp.ExecutedQty,
		Price:        resp.AvgPrice,
	}, nil
}

// compile-time check
var _ domain.Venue = (*LiveVenue)(nil)
