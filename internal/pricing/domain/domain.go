// Package domain 期权定价服务的领域模型
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// ExerciseStyle 行权方式
type ExerciseStyle string

const (
	ExerciseStyleEuropean ExerciseStyle = "EUROPEAN" // 欧式：仅到期日可行权
	ExerciseStyleAmerican ExerciseStyle = "AMERICAN" // 美式：到期前任意时点可行权
)

// PricingModelType 定价模型类型
type PricingModelType string

const (
	PricingModelBinomial     PricingModelType = "BINOMIAL"
	PricingModelBlackScholes PricingModelType = "BLACK_SCHOLES"
	PricingModelMonteCarlo   PricingModelType = "MONTE_CARLO"
)

// OptionSpec 一次定价请求的完整输入
// 创建后不再修改，每次定价调用独立持有一份，无共享状态。
type OptionSpec struct {
	Spot          float64       // 标的现价 S0
	Strike        float64       // 执行价格 K
	Maturity      float64       // 到期时间 T (年)
	Rate          float64       // 无风险利率 r (可为负)
	Volatility    float64       // 年化波动率 sigma
	DividendYield float64       // 连续股息率 q (>= 0)
	Kind          OptionType    // 看涨 / 看跌
	Style         ExerciseStyle // 欧式 / 美式
	Steps         int           // 二叉树步数 n (>= 1)
}

// Validate 校验定价输入的前置条件，任何数值计算开始前执行。
func (s OptionSpec) Validate() error {
	if s.Spot <= 0 || s.Strike <= 0 || s.Maturity <= 0 || s.Volatility <= 0 {
		return ErrInvalidSpec
	}
	if s.DividendYield < 0 {
		return ErrInvalidSpec
	}
	if s.Steps < 1 {
		return ErrInvalidSpec
	}
	switch s.Kind {
	case OptionTypeCall, OptionTypePut:
	default:
		return ErrInvalidOptionKind
	}
	switch s.Style {
	case ExerciseStyleEuropean, ExerciseStyleAmerican:
	default:
		return ErrInvalidExerciseStyle
	}
	return nil
}

// Greeks 希腊字母
type Greeks struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
	Vega  decimal.Decimal `json:"vega"`
	Rho   decimal.Decimal `json:"rho"`
}

// PricingResult 定价结果实体
type PricingResult struct {
	ID              uint             `json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Symbol          string           `json:"symbol"`
	Model           PricingModelType `json:"model"`
	Kind            OptionType       `json:"kind"`
	Style           ExerciseStyle    `json:"style"`
	OptionPrice     decimal.Decimal  `json:"option_price"`
	UnderlyingPrice decimal.Decimal  `json:"underlying_price"`
	StrikePrice     decimal.Decimal  `json:"strike_price"`
	Maturity        float64          `json:"maturity"`
	Volatility      float64          `json:"volatility"`
	RiskFreeRate    float64          `json:"risk_free_rate"`
	DividendYield   float64          `json:"dividend_yield"`
	Steps           int              `json:"steps"`
	Delta           decimal.Decimal  `json:"delta"`
	Gamma           decimal.Decimal  `json:"gamma"`
	Theta           decimal.Decimal  `json:"theta"`
	Vega            decimal.Decimal  `json:"vega"`
	Rho             decimal.Decimal  `json:"rho"`
	CalculatedAt    int64            `json:"calculated_at"`
}
