package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

type fakeRepo struct {
	saved []*domain.PricingResult
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeRepo) SaveResult(_ context.Context, result *domain.PricingResult) error {
	result.ID = uint(len(r.saved) + 1)
	r.saved = append(r.saved, result)
	return nil
}

func (r *fakeRepo) GetLatest(_ context.Context, symbol string) (*domain.PricingResult, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Symbol == symbol {
			return r.saved[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetHistory(_ context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	var out []*domain.PricingResult
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if r.saved[i].Symbol == symbol {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	topics []string
}

func (p *fakePublisher) Publish(_ context.Context, topic string, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func (p *fakePublisher) PublishInTx(_ context.Context, _ any, topic string, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

type fakeMarketData struct {
	quote decimal.Decimal
}

func (m *fakeMarketData) GetQuote(_ context.Context, _ string) (decimal.Decimal, error) {
	return m.quote, nil
}

func (m *fakeMarketData) SaveQuote(_ context.Context, _ string, price decimal.Decimal, _ int64) error {
	m.quote = price
	return nil
}

func baseCommand() PriceOptionCommand {
	return PriceOptionCommand{
		Symbol:          "AAPL-C-100",
		Kind:            "CALL",
		UnderlyingPrice: 100,
		StrikePrice:     100,
		Maturity:        1,
		RiskFreeRate:    0.05,
		Volatility:      0.2,
	}
}

func TestPriceOption_AppliesDefaults(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewPricingCommandService(repo, &fakeMarketData{}, pub)

	result, err := svc.PriceOption(context.Background(), baseCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Model != domain.PricingModelBinomial {
		t.Errorf("default model = %v, want BINOMIAL", result.Model)
	}
	if result.Style != domain.ExerciseStyleEuropean {
		t.Errorf("default style = %v, want EUROPEAN", result.Style)
	}
	if result.Steps != defaultSteps {
		t.Errorf("default steps = %d, want %d", result.Steps, defaultSteps)
	}
	if result.OptionPrice.IsZero() {
		t.Error("expected non-zero option price")
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 persisted result, got %d", len(repo.saved))
	}
	if len(pub.topics) != 2 {
		t.Fatalf("expected 2 events, got %v", pub.topics)
	}
	if pub.topics[0] != domain.OptionPricedEventType || pub.topics[1] != domain.GreeksCalculatedEventType {
		t.Errorf("unexpected event topics: %v", pub.topics)
	}
}

func TestPriceOption_FetchesQuoteWhenSpotMissing(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewPricingCommandService(repo, &fakeMarketData{quote: decimal.NewFromInt(120)}, &fakePublisher{})

	cmd := baseCommand()
	cmd.UnderlyingPrice = 0
	result, err := svc.PriceOption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.UnderlyingPrice.Equal(decimal.NewFromInt(120)) {
		t.Errorf("underlying price = %v, want 120", result.UnderlyingPrice)
	}
}

func TestPriceOption_MonteCarloModel(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewPricingCommandService(repo, &fakeMarketData{}, &fakePublisher{})

	cmd := baseCommand()
	cmd.Model = "MONTE_CARLO"
	result, err := svc.PriceOption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Vanilla call priced by simulation should land near the
	// closed-form 10.4506 at the default path count.
	price := result.OptionPrice.InexactFloat64()
	if price < 9 || price > 12 {
		t.Errorf("monte carlo price %v implausibly far from 10.45", price)
	}

	cmd.Style = "AMERICAN"
	if _, err := svc.PriceOption(context.Background(), cmd); err == nil {
		t.Error("expected error for american monte carlo pricing")
	}
}

func TestPriceOption_RejectsUnknownModel(t *testing.T) {
	svc := NewPricingCommandService(&fakeRepo{}, &fakeMarketData{}, &fakePublisher{})

	cmd := baseCommand()
	cmd.Model = "TRINOMIAL"
	if _, err := svc.PriceOption(context.Background(), cmd); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestPriceOption_PropagatesDomainErrors(t *testing.T) {
	svc := NewPricingCommandService(&fakeRepo{}, &fakeMarketData{}, &fakePublisher{})

	cmd := baseCommand()
	cmd.StrikePrice = -10
	if _, err := svc.PriceOption(context.Background(), cmd); !errors.Is(err, domain.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}

	cmd = baseCommand()
	cmd.Style = "BERMUDAN"
	if _, err := svc.PriceOption(context.Background(), cmd); !errors.Is(err, domain.ErrInvalidExerciseStyle) {
		t.Errorf("expected ErrInvalidExerciseStyle, got %v", err)
	}
}

func TestPriceMonteCarlo_PersistsOnlyWithSymbol(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewPricingCommandService(repo, &fakeMarketData{}, &fakePublisher{})

	cmd := PriceMonteCarloCommand{
		Spot:         100,
		Maturity:     1,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Paths:        10000,
		Seed:         7,
		Payoff:       "max(S - 100, 0)",
	}

	price, err := svc.PriceMonteCarlo(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price <= 0 {
		t.Errorf("expected positive price, got %v", price)
	}
	if len(repo.saved) != 0 {
		t.Errorf("anonymous pricing should not persist, saved %d", len(repo.saved))
	}

	cmd.Symbol = "AAPL-MC"
	if _, err := svc.PriceMonteCarlo(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected 1 persisted result, got %d", len(repo.saved))
	}
}

func TestPriceMonteCarlo_RejectsBadPayoff(t *testing.T) {
	svc := NewPricingCommandService(&fakeRepo{}, &fakeMarketData{}, &fakePublisher{})

	cmd := PriceMonteCarloCommand{
		Spot:         100,
		Maturity:     1,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
		Paths:        100,
		Payoff:       "max(unknown - 100, 0)",
	}
	if _, err := svc.PriceMonteCarlo(context.Background(), cmd); err == nil {
		t.Error("expected error for unknown payoff identifier")
	}
}

func TestBatchPriceOptions_CountsFailures(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewPricingCommandService(repo, &fakeMarketData{}, pub)

	bad := baseCommand()
	bad.StrikePrice = -1

	result, err := svc.BatchPriceOptions(context.Background(), BatchPriceOptionsCommand{
		BatchID:   "batch-1",
		Contracts: []PriceOptionCommand{baseCommand(), bad, baseCommand()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SuccessCount != 2 || result.FailureCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", result.SuccessCount, result.FailureCount)
	}
	if len(result.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(result.Results))
	}
	last := pub.topics[len(pub.topics)-1]
	if last != domain.BatchPricingCompletedEventType {
		t.Errorf("expected batch event last, got %v", last)
	}
}
