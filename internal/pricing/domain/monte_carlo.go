package domain

import (
	"math"
	"math/rand"
	"time"
)

// MonteCarloParams 蒙特卡洛定价输入
type MonteCarloParams struct {
	Spot       float64 // 标的现价
	Maturity   float64 // 到期时间 (年)
	Rate       float64 // 无风险利率
	Volatility float64 // 年化波动率
	Paths      int     // 模拟路径数
	Seed       int64   // 随机种子，0 表示按当前时间取种
}

// Validate 校验模拟参数。
func (p MonteCarloParams) Validate() error {
	if p.Spot <= 0 || p.Maturity <= 0 || p.Volatility <= 0 {
		return ErrInvalidSimulation
	}
	if p.Paths < 1 {
		return ErrInvalidSimulation
	}
	return nil
}

// PayoffFunc 终端价格到收益的映射，由调用方提供（见 CompilePayoff）。
type PayoffFunc func(terminalPrice float64) (float64, error)

// VanillaPayoff 标准看涨/看跌的内在价值收益函数。
func VanillaPayoff(kind OptionType, strike float64) PayoffFunc {
	return func(terminalPrice float64) (float64, error) {
		return intrinsicValue(kind, terminalPrice, strike), nil
	}
}

// PriceMonteCarlo 在几何布朗运动下模拟终端价格并折现平均收益。
// 相同 Seed 下结果可复现；该组件是引擎中唯一带随机性的部分。
func PriceMonteCarlo(params MonteCarloParams, payoff PayoffFunc) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	drift := (params.Rate - 0.5*params.Volatility*params.Volatility) * params.Maturity
	diffusion := params.Volatility * math.Sqrt(params.Maturity)

	sum := 0.0
	for range params.Paths {
		z := rng.NormFloat64()
		terminal := params.Spot * math.Exp(drift+diffusion*z)
		value, err := payoff(terminal)
		if err != nil {
			return 0, err
		}
		sum += value
	}

	average := sum / float64(params.Paths)
	return math.Exp(-params.Rate*params.Maturity) * average, nil
}
