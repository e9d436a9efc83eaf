package application

import "github.com/wyfcoding/optionpricing/internal/pricing/domain"

// PriceOptionCommand 期权定价命令
type PriceOptionCommand struct {
	Symbol          string
	Kind            string
	Style           string
	Model           string
	UnderlyingPrice float64
	StrikePrice     float64
	Maturity        float64
	RiskFreeRate    float64
	Volatility      float64
	DividendYield   float64
	Steps           int
}

// PriceMonteCarloCommand 蒙特卡洛定价命令
// Payoff 是以 S 引用终端价格的收益表达式。
type PriceMonteCarloCommand struct {
	Symbol       string
	Spot         float64
	Maturity     float64
	RiskFreeRate float64
	Volatility   float64
	Paths        int
	Seed         int64
	Payoff       string
}

// BatchPriceOptionsCommand 批量定价命令
type BatchPriceOptionsCommand struct {
	BatchID   string
	Contracts []PriceOptionCommand
}

// BatchPricingResult 批量定价结果
type BatchPricingResult struct {
	BatchID      string
	Results      []*domain.PricingResult
	SuccessCount int
	FailureCount int
	AverageTime  float64
}

// GreeksQuery 希腊字母查询参数
type GreeksQuery struct {
	Kind            string
	UnderlyingPrice float64
	StrikePrice     float64
	Maturity        float64
	RiskFreeRate    float64
	Volatility      float64
	DividendYield   float64
}
