package application

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/xerrors"
)

// PricingQueryService 处理定价相关的查询操作
type PricingQueryService struct {
	repo   domain.PricingRepository
	cache  domain.PricingResultCache
	logger *slog.Logger
}

// NewPricingQueryService 创建 PricingQueryService 实例
func NewPricingQueryService(repo domain.PricingRepository, cache domain.PricingResultCache, logger *slog.Logger) *PricingQueryService {
	return &PricingQueryService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// GetLatestResult 查询某合约最近一次定价结果，优先走缓存。
func (q *PricingQueryService) GetLatestResult(ctx context.Context, symbol string) (*domain.PricingResult, error) {
	if symbol == "" {
		return nil, xerrors.InvalidArg("symbol is required")
	}

	if q.cache != nil {
		cached, err := q.cache.GetLatest(ctx, symbol)
		if err != nil {
			// 缓存故障降级为直查数据库
			q.logger.Warn("pricing result cache unavailable", "symbol", symbol, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	result, err := q.repo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, xerrors.NotFound("no pricing result for symbol: " + symbol)
	}

	if q.cache != nil {
		if err := q.cache.SaveResult(ctx, result); err != nil {
			q.logger.Warn("failed to backfill pricing result cache", "symbol", symbol, "error", err)
		}
	}
	return result, nil
}

// GetHistory 查询某合约的历史定价记录，按时间倒序。
func (q *PricingQueryService) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	if symbol == "" {
		return nil, xerrors.InvalidArg("symbol is required")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return q.repo.GetHistory(ctx, symbol, limit)
}

// GetGreeks 按闭式公式即时计算希腊字母，不落库。
func (q *PricingQueryService) GetGreeks(_ context.Context, query GreeksQuery) (*domain.BlackScholesResult, error) {
	return domain.CalculateBlackScholes(domain.OptionType(query.Kind), domain.BlackScholesInput{
		S: query.UnderlyingPrice,
		K: query.StrikePrice,
		T: query.Maturity,
		R: query.RiskFreeRate,
		V: query.Volatility,
		Q: query.DividendYield,
	})
}
