package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/pkg/xerrors"
)

const (
	defaultSteps = 200
	defaultPaths = 100000
)

// PricingCommandService 处理定价相关的命令操作
// 结果落库与领域事件发布共用同一事务（Outbox 模式）。
type PricingCommandService struct {
	repo       domain.PricingRepository
	marketData domain.MarketDataSource
	publisher  messagequeue.EventPublisher
}

// NewPricingCommandService 创建 PricingCommandService 实例
func NewPricingCommandService(repo domain.PricingRepository, marketData domain.MarketDataSource, publisher messagequeue.EventPublisher) *PricingCommandService {
	return &PricingCommandService{
		repo:       repo,
		marketData: marketData,
		publisher:  publisher,
	}
}

// PriceOption 期权定价
// 模型缺省为二叉树；标的价格缺省时从行情缓存取最新报价。
func (c *PricingCommandService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*domain.PricingResult, error) {
	if cmd.Symbol == "" {
		return nil, xerrors.InvalidArg("symbol is required")
	}
	if cmd.Model == "" {
		cmd.Model = string(domain.PricingModelBinomial)
	}
	if cmd.Style == "" {
		cmd.Style = string(domain.ExerciseStyleEuropean)
	}
	if cmd.Steps == 0 {
		cmd.Steps = defaultSteps
	}

	if cmd.UnderlyingPrice == 0 && c.marketData != nil {
		quote, err := c.marketData.GetQuote(ctx, cmd.Symbol)
		if err != nil {
			return nil, err
		}
		cmd.UnderlyingPrice = quote.InexactFloat64()
	}

	spec := domain.OptionSpec{
		Spot:          cmd.UnderlyingPrice,
		Strike:        cmd.StrikePrice,
		Maturity:      cmd.Maturity,
		Rate:          cmd.RiskFreeRate,
		Volatility:    cmd.Volatility,
		DividendYield: cmd.DividendYield,
		Kind:          domain.OptionType(cmd.Kind),
		Style:         domain.ExerciseStyle(cmd.Style),
		Steps:         cmd.Steps,
	}

	var price float64
	var greeks domain.Greeks

	switch domain.PricingModelType(cmd.Model) {
	case domain.PricingModelBinomial:
		p, err := domain.PriceOption(spec)
		if err != nil {
			return nil, err
		}
		price = p
		// 美式无闭式解，仅欧式补充闭式 Greeks。
		if spec.Style == domain.ExerciseStyleEuropean {
			bs, err := domain.CalculateBlackScholes(spec.Kind, blackScholesInput(spec))
			if err != nil {
				return nil, err
			}
			greeks = toGreeks(bs)
		}
	case domain.PricingModelBlackScholes:
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		bs, err := domain.CalculateBlackScholes(spec.Kind, blackScholesInput(spec))
		if err != nil {
			return nil, err
		}
		price = bs.Price.InexactFloat64()
		greeks = toGreeks(bs)
	case domain.PricingModelMonteCarlo:
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if spec.Style != domain.ExerciseStyleEuropean {
			return nil, domain.ErrInvalidExerciseStyle
		}
		p, err := domain.PriceMonteCarlo(domain.MonteCarloParams{
			Spot:       spec.Spot,
			Maturity:   spec.Maturity,
			Rate:       spec.Rate,
			Volatility: spec.Volatility,
			Paths:      defaultPaths,
		}, domain.VanillaPayoff(spec.Kind, spec.Strike))
		if err != nil {
			return nil, err
		}
		price = p
	default:
		return nil, xerrors.InvalidArg("unsupported pricing model: " + cmd.Model)
	}

	result := &domain.PricingResult{
		Symbol:          cmd.Symbol,
		Model:           domain.PricingModelType(cmd.Model),
		Kind:            spec.Kind,
		Style:           spec.Style,
		OptionPrice:     decimal.NewFromFloat(price),
		UnderlyingPrice: decimal.NewFromFloat(cmd.UnderlyingPrice),
		StrikePrice:     decimal.NewFromFloat(cmd.StrikePrice),
		Maturity:        cmd.Maturity,
		Volatility:      cmd.Volatility,
		RiskFreeRate:    cmd.RiskFreeRate,
		DividendYield:   cmd.DividendYield,
		Steps:           cmd.Steps,
		Delta:           greeks.Delta,
		Gamma:           greeks.Gamma,
		Theta:           greeks.Theta,
		Vega:            greeks.Vega,
		Rho:             greeks.Rho,
		CalculatedAt:    time.Now().Unix(),
	}

	err := c.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.repo.SaveResult(txCtx, result); err != nil {
			return err
		}
		if c.publisher == nil {
			return nil
		}
		tx := contextx.GetTx(txCtx)

		priced := domain.OptionPricedEvent{
			Symbol:          cmd.Symbol,
			Model:           result.Model,
			Kind:            result.Kind,
			Style:           result.Style,
			StrikePrice:     cmd.StrikePrice,
			Maturity:        cmd.Maturity,
			OptionPrice:     price,
			UnderlyingPrice: cmd.UnderlyingPrice,
			Volatility:      cmd.Volatility,
			RiskFreeRate:    cmd.RiskFreeRate,
			DividendYield:   cmd.DividendYield,
			Steps:           cmd.Steps,
			CalculatedAt:    result.CalculatedAt,
			OccurredOn:      time.Now(),
		}
		if err := c.publisher.PublishInTx(txCtx, tx, domain.OptionPricedEventType, cmd.Symbol, priced); err != nil {
			return err
		}

		calculated := domain.GreeksCalculatedEvent{
			Symbol:          cmd.Symbol,
			Kind:            result.Kind,
			StrikePrice:     cmd.StrikePrice,
			Maturity:        cmd.Maturity,
			UnderlyingPrice: cmd.UnderlyingPrice,
			Delta:           greeks.Delta.InexactFloat64(),
			Gamma:           greeks.Gamma.InexactFloat64(),
			Theta:           greeks.Theta.InexactFloat64(),
			Vega:            greeks.Vega.InexactFloat64(),
			Rho:             greeks.Rho.InexactFloat64(),
			CalculatedAt:    result.CalculatedAt,
			OccurredOn:      time.Now(),
		}
		return c.publisher.PublishInTx(txCtx, tx, domain.GreeksCalculatedEventType, cmd.Symbol, calculated)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PriceMonteCarlo 以用户收益表达式做蒙特卡洛定价。
// Symbol 非空时结果会被持久化，否则仅返回价格。
func (c *PricingCommandService) PriceMonteCarlo(ctx context.Context, cmd PriceMonteCarloCommand) (float64, error) {
	payoff, err := domain.CompilePayoff(cmd.Payoff)
	if err != nil {
		return 0, err
	}

	price, err := domain.PriceMonteCarlo(domain.MonteCarloParams{
		Spot:       cmd.Spot,
		Maturity:   cmd.Maturity,
		Rate:       cmd.RiskFreeRate,
		Volatility: cmd.Volatility,
		Paths:      cmd.Paths,
		Seed:       cmd.Seed,
	}, payoff)
	if err != nil {
		return 0, err
	}

	if cmd.Symbol == "" {
		return price, nil
	}

	result := &domain.PricingResult{
		Symbol:          cmd.Symbol,
		Model:           domain.PricingModelMonteCarlo,
		OptionPrice:     decimal.NewFromFloat(price),
		UnderlyingPrice: decimal.NewFromFloat(cmd.Spot),
		Maturity:        cmd.Maturity,
		Volatility:      cmd.Volatility,
		RiskFreeRate:    cmd.RiskFreeRate,
		CalculatedAt:    time.Now().Unix(),
	}
	if err := c.repo.WithTx(ctx, func(txCtx context.Context) error {
		return c.repo.SaveResult(txCtx, result)
	}); err != nil {
		return 0, err
	}
	return price, nil
}

// BatchPriceOptions 批量定价
func (c *PricingCommandService) BatchPriceOptions(ctx context.Context, cmd BatchPriceOptionsCommand) (*BatchPricingResult, error) {
	results := make([]*domain.PricingResult, 0, len(cmd.Contracts))
	successCount := 0
	failureCount := 0
	totalTime := 0.0

	for _, contract := range cmd.Contracts {
		start := time.Now()
		result, err := c.PriceOption(ctx, contract)
		totalTime += time.Since(start).Seconds()

		if err != nil {
			failureCount++
			continue
		}
		results = append(results, result)
		successCount++
	}

	avg := 0.0
	if len(cmd.Contracts) > 0 {
		avg = totalTime / float64(len(cmd.Contracts))
	}

	if c.publisher != nil {
		_ = c.publisher.Publish(ctx, domain.BatchPricingCompletedEventType, cmd.BatchID, domain.BatchPricingCompletedEvent{
			BatchID:        cmd.BatchID,
			Symbols:        extractSymbols(cmd.Contracts),
			TotalContracts: len(cmd.Contracts),
			SuccessCount:   successCount,
			FailureCount:   failureCount,
			AverageTime:    avg,
			CompletedAt:    time.Now().Unix(),
			OccurredOn:     time.Now(),
		})
	}

	return &BatchPricingResult{
		BatchID:      cmd.BatchID,
		Results:      results,
		SuccessCount: successCount,
		FailureCount: failureCount,
		AverageTime:  avg,
	}, nil
}

func blackScholesInput(spec domain.OptionSpec) domain.BlackScholesInput {
	return domain.BlackScholesInput{
		S: spec.Spot,
		K: spec.Strike,
		T: spec.Maturity,
		R: spec.Rate,
		V: spec.Volatility,
		Q: spec.DividendYield,
	}
}

func toGreeks(bs *domain.BlackScholesResult) domain.Greeks {
	return domain.Greeks{
		Delta: bs.Delta,
		Gamma: bs.Gamma,
		Theta: bs.Theta,
		Vega:  bs.Vega,
		Rho:   bs.Rho,
	}
}

// 辅助函数：提取去重后的合约符号
func extractSymbols(contracts []PriceOptionCommand) []string {
	symbols := make([]string, 0, len(contracts))
	seen := make(map[string]bool)
	for _, contract := range contracts {
		if !seen[contract.Symbol] {
			symbols = append(symbols, contract.Symbol)
			seen[contract.Symbol] = true
		}
	}
	return symbols
}
