package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TradingClient handles authenticated Binance spot API requests.
type TradingClient struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// APIError captures structured error info returned by Binance.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"msg"`
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "binance API error"
	}
	if e.Code != 0 || e.Message != "" {
		return fmt.Sprintf("binance API error %d (code=%d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("binance API error %d: %s", e.StatusCode, e.Body)
}

func parseAPIError(statusCode int, body []byte) error {
	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Code != 0 || parsed.Msg != "") {
		return &APIError{StatusCode: statusCode, Code: parsed.Code, Message: parsed.Msg, Body: string(body)}
	}
	return &APIError{StatusCode: statusCode, Body: string(body)}
}

// NewTradingClient creates a new authenticated Binance client.
func NewTradingClient(apiKey, secretKey, baseURL string) *TradingClient {
	if baseURL == "" {
		baseURL = SpotBaseURL
	}
	return &TradingClient{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Account is the subset of the spot account endpoint the bot needs: free
// balances plus the maker/taker commission integers.
type Account struct {
	MakerCommission int64
	TakerCommission int64
	Balances        map[string]float64 // asset -> free amount
}

// GetAccount retrieves balances and commission rates.
func (c *TradingClient) GetAccount(ctx context.Context) (*Account, error) {
	resp, err := c.signedRequest(ctx, http.MethodGet, "/api/v3/account", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var parsed struct {
		MakerCommission int64 `json:"makerCommission"`
		TakerCommission int64 `json:"takerCommission"`
		Balances        []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	account := &Account{
		MakerCommission: parsed.MakerCommission,
		TakerCommission: parsed.TakerCommission,
		Balances:        make(map[string]float64, len(parsed.Balances)),
	}
	for _, b := range parsed.Balances {
		free, _ := strconv.ParseFloat(b.Free, 64)
		account.Balances[b.Asset] = free
	}
	return account, nil
}

// OrderResponse is the venue's acknowledgment of a placed order.
type OrderResponse struct {
	OrderID     int64
	Symbol      string
	Status      string
	ExecutedQty float64
	AvgPrice    float64
}

// PlaceMarketOrder submits a market order; side is "BUY" or "SELL".
func (c *TradingClient) PlaceMarketOrder(ctx context.Context, symbol, side string, quantity float64) (*OrderResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', 8, 64))

	resp, err := c.signedRequest(ctx, http.MethodPost, "/api/v3/order", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var parsed struct {
		OrderID     int64  `json:"orderId"`
		Symbol      string `json:"symbol"`
		Status      string `json:"status"`
		ExecutedQty string `json:"executedQty"`
		Fills       []struct {
			Price string `json:"price"`
		} `json:"fills"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	executedQty, _ := strconv.ParseFloat(parsed.ExecutedQty, 64)
	var avgPrice float64
	if len(parsed.Fills) > 0 {
		avgPrice, _ = strconv.ParseFloat(parsed.Fills[0].Price, 64)
	}

	return &OrderResponse{
		OrderID:     parsed.OrderID,
		Symbol:      parsed.Symbol,
		Status:      parsed.Status,
		ExecutedQty: executedQty,
		AvgPrice:    avgPrice,
	}, nil
}

// signedRequest makes a signed API request.
func (c *TradingClient) signedRequest(ctx context.Context, method, endpoint string, params url.Values) (*http.Response, error) {
	if params == nil {
		params = url.Values{}
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	params.Set("timestamp", timestamp)

	queryString := params.Encode()
	signature := c.sign(queryString)
	params.Set("signature", signature)

	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	return c.httpClient.Do(req)
}

// sign creates the HMAC SHA256 signature.
func (c *TradingClient) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
