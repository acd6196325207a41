package oracle

import (
	"context"
	"fmt"
	"time"

	"lending/core"
	"lending/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Ticker price ticker returned by the feed
type Ticker struct {
	Base     string          `json:"base"`
	Quote    string          `json:"quote"`
	Price    decimal.Decimal `json:"price"`
	Decimals int32           `json:"decimals"`
}

// PriceService price feed over http, cached for ttl
type PriceService struct {
	endpoint string
	cache    gcache.Cache
	sf       *singleflight.Group
}

// New new oracle price service
func New(endpoint string, ttl time.Duration) *PriceService {
	return &PriceService{
		endpoint: endpoint,
		cache:    gcache.New(1024).LRU().Expiration(ttl).Build(),
		sf:       &singleflight.Group{},
	}
}

var _ core.PriceOracle = (*PriceService)(nil)

func (s *PriceService) Price(ctx context.Context, base, quote string) (decimal.Decimal, int32, error) {
	key := pairKey(base, quote)
	if v, err := s.cache.Get(key); err == nil {
		if ticker, ok := v.(*Ticker); ok {
			return ticker.Price, ticker.Decimals, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.PullPriceTicker(ctx, base, quote)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle: pull price", key)
		return decimal.Zero, 0, core.ErrPriceUnavailable
	}

	ticker := v.(*Ticker)
	if !ticker.Price.IsPositive() {
		return decimal.Zero, 0, core.ErrPriceUnavailable
	}

	if err := s.cache.Set(key, ticker); err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("oracle: cache price", key)
	}

	return ticker.Price, ticker.Decimals, nil
}

// PullPriceTicker pull price ticker
func (s *PriceService) PullPriceTicker(ctx context.Context, base, quote string) (*Ticker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?quote=%s", s.endpoint, base, quote)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker Ticker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

// Warm fetch prices of symbols concurrently, at most capacity requests in flight
func (s *PriceService) Warm(ctx context.Context, quote string, symbols []string, capacity int64) error {
	sem := semaphore.NewWeighted(capacity)
	g := errgroup.Group{}

	for idx := range symbols {
		symbol := symbols[idx]

		if err := sem.Acquire(ctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				logger.FromContext(ctx).WithError(werr).Errorln("oracle: warm")
			}

			return err
		}

		g.Go(func() error {
			defer sem.Release(1)
			_, _, err := s.Price(ctx, symbol, quote)
			return err
		})
	}

	return g.Wait()
}
