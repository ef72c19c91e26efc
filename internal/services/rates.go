package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"portfolio-growth-api/internal/config"
	"portfolio-growth-api/internal/models"
	"portfolio-growth-api/pkg/alphavantage"
	"portfolio-growth-api/pkg/yahoo"

	"github.com/rs/zerolog/log"
)

// RateService derives annual-return-rate presets from market data. A preset
// is the trailing annualized return of a ticker, meant to prefill the
// annualReturnRate field of a projection request instead of a hard-coded
// default.
type RateService struct {
	config       *config.Config
	cache        *CacheService
	alphaVantage *alphavantage.Client
	yahoo        *yahoo.Client
	workerPool   chan struct{} // Semaphore for bounded concurrency
}

func NewRateService(cfg *config.Config, cache *CacheService) *RateService {
	return &RateService{
		config:       cfg,
		cache:        cache,
		alphaVantage: alphavantage.NewClient(cfg.AlphaVantageKey),
		yahoo:        yahoo.NewClient(),
		workerPool:   make(chan struct{}, cfg.MaxConcurrentFetches),
	}
}

// GetRate returns the rate preset for a single symbol.
func (s *RateService) GetRate(ctx context.Context, symbol string) (*models.RateData, error) {
	return s.fetchSingle(ctx, symbol)
}

// FetchBatch fetches rate presets for multiple symbols concurrently using
// a worker pool.
func (s *RateService) FetchBatch(ctx context.Context, symbols []string) (map[string]*models.RateData, error) {
	results := make(map[string]*models.RateData)
	var mu sync.Mutex
	var wg sync.WaitGroup

	resultCh := make(chan *models.RateData, len(symbols))
	errorCh := make(chan error, len(symbols))

	for _, symbol := range symbols {
		wg.Add(1)

		go func(symbol string) {
			defer wg.Done()

			// Acquire worker slot (bounded concurrency)
			s.workerPool <- struct{}{}
			defer func() { <-s.workerPool }()

			fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			data, err := s.fetchSingle(fetchCtx, symbol)
			if err != nil {
				errorCh <- fmt.Errorf("failed to fetch %s: %w", symbol, err)
				return
			}

			resultCh <- data
		}(symbol)
	}

	go func() {
		wg.Wait()
		close(resultCh)
		close(errorCh)
	}()

	for data := range resultCh {
		mu.Lock()
		results[data.Symbol] = data
		mu.Unlock()
	}

	var errs []error
	for err := range errorCh {
		errs = append(errs, err)
	}

	if len(errs) > 0 && len(results) == 0 {
		return nil, fmt.Errorf("all fetches failed: %v", errs[0])
	}
	if len(errs) > 0 {
		log.Warn().Int("failed", len(errs)).Int("fetched", len(results)).Msg("partial rate batch")
	}

	return results, nil
}

// fetchSingle builds the preset for one symbol: current quote with source
// fallback, trailing closes, annualized return.
func (s *RateService) fetchSingle(ctx context.Context, symbol string) (*models.RateData, error) {
	if s.cache != nil {
		if cached, found := s.cache.GetRate(ctx, symbol); found {
			return cached, nil
		}
	}

	quote, err := s.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	closes, err := s.yahoo.GetHistoricalCloses(ctx, symbol, s.config.RateWindowYears)
	if err != nil {
		return nil, fmt.Errorf("no price history for %s: %w", symbol, err)
	}

	rate, err := annualizedReturn(closes, s.config.RateWindowYears)
	if err != nil {
		return nil, fmt.Errorf("cannot annualize %s: %w", symbol, err)
	}

	data := &models.RateData{
		Symbol:               symbol,
		Price:                quote.Price,
		TrailingAnnualReturn: rate,
		WindowYears:          s.config.RateWindowYears,
		LastUpdated:          time.Now(),
		Source:               quote.Source,
	}

	if s.cache != nil {
		if err := s.cache.SetRate(ctx, symbol, data); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("failed to cache rate preset")
		}
	}

	return data, nil
}

// fetchQuote fans out to both sources and takes the first success,
// falling back to the other on failure.
func (s *RateService) fetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	type result struct {
		quote *models.Quote
		err   error
	}

	alphaCh := make(chan result, 1)
	yahooCh := make(chan result, 1)

	go func() {
		if s.config.AlphaVantageKey != "" {
			quote, err := s.alphaVantage.GetQuote(ctx, symbol)
			alphaCh <- result{quote, err}
		} else {
			alphaCh <- result{nil, fmt.Errorf("alpha vantage not configured")}
		}
	}()

	go func() {
		quote, err := s.yahoo.GetQuote(ctx, symbol)
		yahooCh <- result{quote, err}
	}()

	select {
	case res := <-alphaCh:
		if res.err == nil {
			return res.quote, nil
		}
		res = <-yahooCh
		if res.err == nil {
			return res.quote, nil
		}
		return nil, fmt.Errorf("all sources failed for %s", symbol)

	case res := <-yahooCh:
		if res.err == nil {
			return res.quote, nil
		}
		res = <-alphaCh
		if res.err == nil {
			return res.quote, nil
		}
		return nil, fmt.Errorf("all sources failed for %s", symbol)

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// annualizedReturn computes the geometric annual return implied by the
// first and last closes of the window.
func annualizedReturn(closes []float64, years int) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("need at least 2 closes, got %d", len(closes))
	}
	first, last := closes[0], closes[len(closes)-1]
	if first <= 0 || last <= 0 {
		return 0, fmt.Errorf("non-positive closes %v, %v", first, last)
	}
	rate := math.Pow(last/first, 1/float64(years)) - 1
	return rate, nil
}
