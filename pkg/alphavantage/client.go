package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"portfolio-growth-api/internal/models"
)

const baseURL = "https://www.alphavantage.co/query"

type Client struct {
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		PreviousClose    string `json:"08. previous close"`
		LatestTradingDay string `json:"07. latest trading day"`
	} `json:"Global Quote"`
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	url := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", baseURL, symbol, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var quoteResp GlobalQuoteResponse
	if err := json.Unmarshal(body, &quoteResp); err != nil {
		return nil, err
	}

	if quoteResp.GlobalQuote.Symbol == "" {
		return nil, fmt.Errorf("no data returned for symbol %s", symbol)
	}

	price, _ := strconv.ParseFloat(quoteResp.GlobalQuote.Price, 64)
	previousClose, _ := strconv.ParseFloat(quoteResp.GlobalQuote.PreviousClose, 64)

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		LastUpdated:   time.Now(),
		Source:        "alphavantage",
	}, nil
}
