package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// MarketDataSource 最新标的报价来源（由行情消费端写入的缓存实现）
type MarketDataSource interface {
	GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
	SaveQuote(ctx context.Context, symbol string, price decimal.Decimal, timestamp int64) error
}

// PricingResultCache 最新定价结果缓存接口
type PricingResultCache interface {
	SaveResult(ctx context.Context, result *PricingResult) error
	GetLatest(ctx context.Context, symbol string) (*PricingResult, error)
}

// PricingRepository 定价结果仓储接口
type PricingRepository interface {
	// WithTx 在单个数据库事务内执行 fn，事务对象通过 context 传递。
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	SaveResult(ctx context.Context, result *PricingResult) error
	GetLatest(ctx context.Context, symbol string) (*PricingResult, error)
	GetHistory(ctx context.Context, symbol string, limit int) ([]*PricingResult, error)
}
