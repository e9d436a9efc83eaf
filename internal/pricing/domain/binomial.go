package domain

import "math"

// LatticeParameters Cox-Ross-Rubinstein 二叉树派生参数
// 由 OptionSpec 一次性推导，随即被树求值消费。
type LatticeParameters struct {
	Up       float64 // 上行因子 u = exp(sigma*sqrt(dt))
	Down     float64 // 下行因子 d = 1/u
	Prob     float64 // 风险中性概率 p
	Discount float64 // 单步折现因子 exp(-r*dt)
}

// DeriveLatticeParameters 从市场输入推导 CRR 树参数。
// 纯函数，无副作用。当 p 不在 (0,1) 开区间内时返回
// ErrProbabilityOutOfRange：越界意味着该参数组合下模型存在套利，
// 截断到 [0,1] 会静默产生错误价格，因此直接拒绝。
func DeriveLatticeParameters(spec OptionSpec) (LatticeParameters, error) {
	dt := spec.Maturity / float64(spec.Steps)
	up := math.Exp(spec.Volatility * math.Sqrt(dt))
	down := 1 / up
	growth := math.Exp((spec.Rate - spec.DividendYield) * dt)
	prob := (growth - down) / (up - down)

	if prob <= 0 || prob >= 1 {
		return LatticeParameters{}, ErrProbabilityOutOfRange
	}

	return LatticeParameters{
		Up:       up,
		Down:     down,
		Prob:     prob,
		Discount: math.Exp(-spec.Rate * dt),
	}, nil
}

// intrinsicValue 立即行权收益。
func intrinsicValue(kind OptionType, price, strike float64) float64 {
	if kind == OptionTypeCall {
		return math.Max(price-strike, 0)
	}
	return math.Max(strike-price, 0)
}

// evaluateLattice 逆向归纳求值。
// 只保留一层节点值，逐层原地收缩；美式期权在每个节点
// 比较持有价值与立即行权收益，取较大者。
func evaluateLattice(spec OptionSpec, lp LatticeParameters) float64 {
	n := spec.Steps
	values := make([]float64, n+1)

	// 终端层：节点 i 处标的价格 S0 * u^i * d^(n-i)
	for i := 0; i <= n; i++ {
		price := spec.Spot * math.Pow(lp.Up, float64(i)) * math.Pow(lp.Down, float64(n-i))
		values[i] = intrinsicValue(spec.Kind, price, spec.Strike)
	}

	american := spec.Style == ExerciseStyleAmerican
	for step := n - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			continuation := lp.Discount * (lp.Prob*values[i+1] + (1-lp.Prob)*values[i])
			if american {
				price := spec.Spot * math.Pow(lp.Up, float64(i)) * math.Pow(lp.Down, float64(step-i))
				values[i] = math.Max(continuation, intrinsicValue(spec.Kind, price, spec.Strike))
			} else {
				values[i] = continuation
			}
		}
	}

	return values[0]
}

// PriceOption 二叉树定价入口。
// 校验输入、推导树参数并执行逆向归纳，返回期权现值。
// 校验错误与参数域错误原样向上传递，不做本地恢复。
func PriceOption(spec OptionSpec) (float64, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	lp, err := DeriveLatticeParameters(spec)
	if err != nil {
		return 0, err
	}
	return evaluateLattice(spec, lp), nil
}
