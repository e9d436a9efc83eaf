package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

type fakeCache struct {
	results map[string]*domain.PricingResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{results: make(map[string]*domain.PricingResult)}
}

func (c *fakeCache) SaveResult(_ context.Context, result *domain.PricingResult) error {
	c.results[result.Symbol] = result
	return nil
}

func (c *fakeCache) GetLatest(_ context.Context, symbol string) (*domain.PricingResult, error) {
	return c.results[symbol], nil
}

func seededRepo(symbol string) *fakeRepo {
	return &fakeRepo{saved: []*domain.PricingResult{{
		ID:          1,
		Symbol:      symbol,
		Model:       domain.PricingModelBinomial,
		Kind:        domain.OptionTypeCall,
		Style:       domain.ExerciseStyleEuropean,
		OptionPrice: decimal.NewFromFloat(10.45),
	}}}
}

func TestGetLatestResult_BackfillsCache(t *testing.T) {
	cache := newFakeCache()
	svc := NewPricingQueryService(seededRepo("AAPL-C-100"), cache, slog.Default())

	result, err := svc.GetLatestResult(context.Background(), "AAPL-C-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if cache.results["AAPL-C-100"] == nil {
		t.Error("expected cache backfill after repository hit")
	}
}

func TestGetLatestResult_PrefersCache(t *testing.T) {
	cache := newFakeCache()
	cached := &domain.PricingResult{ID: 99, Symbol: "AAPL-C-100"}
	cache.results["AAPL-C-100"] = cached

	svc := NewPricingQueryService(&fakeRepo{}, cache, slog.Default())
	result, err := svc.GetLatestResult(context.Background(), "AAPL-C-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != 99 {
		t.Errorf("expected cached result, got %+v", result)
	}
}

func TestGetLatestResult_NotFound(t *testing.T) {
	svc := NewPricingQueryService(&fakeRepo{}, newFakeCache(), slog.Default())
	if _, err := svc.GetLatestResult(context.Background(), "UNKNOWN"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestGetHistory_ClampsLimit(t *testing.T) {
	repo := seededRepo("AAPL-C-100")
	svc := NewPricingQueryService(repo, newFakeCache(), slog.Default())

	results, err := svc.GetHistory(context.Background(), "AAPL-C-100", -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestGetGreeks_Computes(t *testing.T) {
	svc := NewPricingQueryService(&fakeRepo{}, newFakeCache(), slog.Default())

	result, err := svc.GetGreeks(context.Background(), GreeksQuery{
		Kind:            "CALL",
		UnderlyingPrice: 100,
		StrikePrice:     100,
		Maturity:        1,
		RiskFreeRate:    0.05,
		Volatility:      0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Delta.IsZero() || result.Vega.IsZero() {
		t.Errorf("expected non-zero greeks, got %+v", result)
	}
}
