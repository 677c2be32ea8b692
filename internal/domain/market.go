package domain

import (
	"context"
	"time"
)

// Candle is one OHLCV bar of the traded symbol.
type Candle struct {
	OpenTime time.Time `json:"openTime"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// Fees are the venue's maker/taker commission rates as fractions
// (0.001 = 0.1%).
type Fees struct {
	Maker float64 `json:"maker"`
	Taker float64 `json:"taker"`
}

// Total returns the combined maker+taker rate.
func (f Fees) Total() float64 {
	return f.Maker + f.Taker
}

// Receipt is the venue's acknowledgment of a submitted order.
type Receipt struct {
	VenueOrderID int64   `json:"venueOrderId"`
	ExecutedQty  float64 `json:"executedQty"`
	Price        float64 `json:"price"`
}

// Venue is the market-data and trading capability the engine consumes. All
// calls are bounded by their context; implementations carry their own HTTP
// timeouts.
type Venue interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetBalance(ctx context.Context, asset string) (float64, error)
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
	GetFees(ctx context.Context) (Fees, error)
	SubmitBuy(ctx context.Context, symbol string, quantity float64) (*Receipt, error)
	SubmitSell(ctx context.Context, symbol string, quantity float64) (*Receipt, error)
}

// EntryCriterion selects the configured buy policy.
type EntryCriterion string

const (
	CriterionFibonacci         EntryCriterion = "fibonacci"
	CriterionSupportResistance EntryCriterion = "support_resistance"
)

// ChartSnapshot is one frame of the presentation feed: the price series with
// computed indicators and crossover markers, produced after each tick and
// consumed by the websocket renderer.
type ChartSnapshot struct {
	Time        time.Time `json:"time"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Candles     []Candle  `json:"candles"`
	SMA50       []float64 `json:"sma50"`
	SMA200      []float64 `json:"sma200"`
	Position    []int     `json:"position"` // +1 bullish cross, -1 bearish cross, 0 otherwise
	Support     float64   `json:"support"`
	Resistance  float64   `json:"resistance"`
	FibLevels   []float64 `json:"fibLevels"`
	RSI         float64   `json:"rsi"`
	OpenOrders  int       `json:"openOrders"`
}
