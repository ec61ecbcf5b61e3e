package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"SpotScout/internal/model"
)

// DefaultBaseURL is the public CoinGecko v3 API.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko implements Provider against the CoinGecko REST API.
// Requests go through a token-bucket limiter sized for the free tier and a
// circuit breaker that opens after repeated consecutive failures.
type CoinGecko struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewCoinGecko creates a CoinGecko provider with optional API key and proxy.
func NewCoinGecko(baseURL, apiKey, proxyURL string) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "coingecko",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		// Free tier allows roughly 30 calls/min.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 2),
		breaker: breaker,
	}
}

func (c *CoinGecko) Name() string { return "coingecko" }

func (c *CoinGecko) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("coingecko fetch: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("coingecko decode: %w", err)
		}

		log.Debug().Str("endpoint", endpoint).Dur("duration", time.Since(start)).Msg("coingecko request")
		return nil, nil
	})
	return err
}

// cgMarket is one entry of the /coins/markets response.
type cgMarket struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCapRank int     `json:"market_cap_rank"`
	ATH           float64 `json:"ath"`
	ATL           float64 `json:"atl"`
	Change24h     float64 `json:"price_change_percentage_24h"`
}

func (c *CoinGecko) ListTopAssets(ctx context.Context, n int) ([]model.AssetSnapshot, error) {
	endpoint := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false",
		c.baseURL, n)

	var markets []cgMarket
	if err := c.getJSON(ctx, endpoint, &markets); err != nil {
		return nil, fmt.Errorf("list top assets: %w", err)
	}

	snapshots := make([]model.AssetSnapshot, 0, len(markets))
	for _, m := range markets {
		snapshots = append(snapshots, model.AssetSnapshot{
			ID:            m.ID,
			Name:          m.Name,
			Symbol:        strings.ToUpper(m.Symbol),
			CurrentPrice:  m.CurrentPrice,
			AllTimeHigh:   m.ATH,
			AllTimeLow:    m.ATL,
			Change24h:     m.Change24h,
			MarketCapRank: m.MarketCapRank,
		})
	}
	return snapshots, nil
}

// cgChart is the /coins/{id}/market_chart response; prices are
// [millisecond timestamp, price] pairs.
type cgChart struct {
	Prices [][2]float64 `json:"prices"`
}

func (c *CoinGecko) GetPriceHistory(ctx context.Context, assetID string, days int) (*model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, url.PathEscape(assetID), days)

	var chart cgChart
	if err := c.getJSON(ctx, endpoint, &chart); err != nil {
		return nil, fmt.Errorf("price history %s: %w", assetID, err)
	}

	points := make([]model.PricePoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(int64(p[0])),
			Price: p[1],
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	return &model.PriceSeries{
		AssetID:   assetID,
		Points:    points,
		FetchedAt: time.Now(),
	}, nil
}

func (c *CoinGecko) GetCurrentPrices(ctx context.Context, assetIDs []string) (map[string]float64, error) {
	if len(assetIDs) == 0 {
		return map[string]float64{}, nil
	}
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(assetIDs, ",")))

	var raw map[string]map[string]float64
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("current prices: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for id, quote := range raw {
		prices[id] = quote["usd"]
	}
	return prices, nil
}
