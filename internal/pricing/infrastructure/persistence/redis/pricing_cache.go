package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// PricingResultCache 基于 Redis 的最新定价结果缓存
type PricingResultCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPricingResultCache 创建定价结果缓存实例
func NewPricingResultCache(client redis.UniversalClient) *PricingResultCache {
	return &PricingResultCache{
		client: client,
		prefix: "pricing:result:",
		ttl:    15 * time.Minute,
	}
}

func (c *PricingResultCache) SaveResult(ctx context.Context, result *domain.PricingResult) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal pricing result: %w", err)
	}
	return c.client.Set(ctx, c.prefix+result.Symbol, data, c.ttl).Err()
}

func (c *PricingResultCache) GetLatest(ctx context.Context, symbol string) (*domain.PricingResult, error) {
	data, err := c.client.Get(ctx, c.prefix+symbol).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pricing result from redis: %w", err)
	}
	var result domain.PricingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pricing result: %w", err)
	}
	return &result, nil
}

type cachedQuote struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}

// QuoteCache 基于 Redis 的标的最新报价缓存，由行情消费端写入。
type QuoteCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewQuoteCache 创建报价缓存实例
func NewQuoteCache(client redis.UniversalClient) *QuoteCache {
	return &QuoteCache{
		client: client,
		prefix: "pricing:quote:",
		ttl:    time.Hour,
	}
}

func (c *QuoteCache) SaveQuote(ctx context.Context, symbol string, price decimal.Decimal, timestamp int64) error {
	data, err := json.Marshal(cachedQuote{Price: price, Timestamp: timestamp})
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}
	return c.client.Set(ctx, c.prefix+symbol, data, c.ttl).Err()
}

func (c *QuoteCache) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	data, err := c.client.Get(ctx, c.prefix+symbol).Bytes()
	if err != nil {
		if err == redis.Nil {
			return decimal.Zero, fmt.Errorf("no quote available for symbol: %s", symbol)
		}
		return decimal.Zero, fmt.Errorf("failed to get quote from redis: %w", err)
	}
	var quote cachedQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return quote.Price, nil
}
