package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// QuoteHandler 消费行情主题，维护定价用的标的最新报价缓存。
type QuoteHandler struct {
	marketData domain.MarketDataSource
	logger     *slog.Logger
}

func NewQuoteHandler(marketData domain.MarketDataSource, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{marketData: marketData, logger: logger}
}

func (h *QuoteHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var payload struct {
		Symbol    string          `json:"symbol"`
		Price     decimal.Decimal `json:"price"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal quote event", "error", err)
		return err
	}
	if payload.Symbol == "" || payload.Price.IsZero() {
		h.logger.WarnContext(ctx, "dropping incomplete quote event", "symbol", payload.Symbol)
		return nil
	}
	return h.marketData.SaveQuote(ctx, payload.Symbol, payload.Price, payload.Timestamp)
}
