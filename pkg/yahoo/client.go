package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio-growth-api/internal/models"
)

const baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type YahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=1d", baseURL, symbol)

	yahooResp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol %s", symbol)
	}

	meta := yahooResp.Chart.Result[0].Meta
	return &models.Quote{
		Symbol:        symbol,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		LastUpdated:   time.Now(),
		Source:        "yahoo",
	}, nil
}

// GetHistoricalCloses returns daily closing prices over the trailing window,
// oldest first, skipping days Yahoo reports as zero.
func (c *Client) GetHistoricalCloses(ctx context.Context, symbol string, years int) ([]float64, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=%dy", baseURL, symbol, years)

	yahooResp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(yahooResp.Chart.Result) == 0 || len(yahooResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no historical data for %s", symbol)
	}

	closes := yahooResp.Chart.Result[0].Indicators.Quote[0].Close

	var validCloses []float64
	for _, price := range closes {
		if price > 0 {
			validCloses = append(validCloses, price)
		}
	}

	return validCloses, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*YahooResponse, error) {
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
		return nil, fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var yahooResp YahooResponse
	if err := json.Unmarshal(body, &yahooResp); err != nil {
		return nil, err
	}

	return &yahooResp, nil
}
