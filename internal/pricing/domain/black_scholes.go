package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// BlackScholesInput Black-Scholes 模型输入
type BlackScholesInput struct {
	S float64 // 标的资产价格
	K float64 // 执行价格
	T float64 // 到期时间 (年)
	R float64 // 无风险利率
	V float64 // 波动率
	Q float64 // 连续股息率
}

// BlackScholesResult Black-Scholes 模型输出
type BlackScholesResult struct {
	Price decimal.Decimal
	Delta decimal.Decimal
	Gamma decimal.Decimal
	Theta decimal.Decimal
	Vega  decimal.Decimal
	Rho   decimal.Decimal
}

// CalculateBlackScholes 计算欧式期权的 Black-Scholes 价格和 Greeks。
func CalculateBlackScholes(kind OptionType, input BlackScholesInput) (*BlackScholesResult, error) {
	if input.S <= 0 || input.K <= 0 || input.T <= 0 || input.V <= 0 {
		return nil, ErrInvalidSpec
	}
	if kind != OptionTypeCall && kind != OptionTypePut {
		return nil, ErrInvalidOptionKind
	}

	sqrtT := math.Sqrt(input.T)
	d1 := (math.Log(input.S/input.K) + (input.R-input.Q+0.5*input.V*input.V)*input.T) / (input.V * sqrtT)
	d2 := d1 - input.V*sqrtT

	expRT := math.Exp(-input.R * input.T)
	expQT := math.Exp(-input.Q * input.T)

	var price, delta, theta, rho float64
	gamma := expQT * normPdf(d1) / (input.S * input.V * sqrtT)
	vega := input.S * expQT * normPdf(d1) * sqrtT

	if kind == OptionTypeCall {
		price = input.S*expQT*normCdf(d1) - input.K*expRT*normCdf(d2)
		delta = expQT * normCdf(d1)
		theta = -input.S*expQT*normPdf(d1)*input.V/(2*sqrtT) - input.R*input.K*expRT*normCdf(d2) + input.Q*input.S*expQT*normCdf(d1)
		rho = input.K * input.T * expRT * normCdf(d2)
	} else {
		price = input.K*expRT*normCdf(-d2) - input.S*expQT*normCdf(-d1)
		delta = expQT * (normCdf(d1) - 1)
		theta = -input.S*expQT*normPdf(d1)*input.V/(2*sqrtT) + input.R*input.K*expRT*normCdf(-d2) - input.Q*input.S*expQT*normCdf(-d1)
		rho = -input.K * input.T * expRT * normCdf(-d2)
	}

	return &BlackScholesResult{
		Price: decimal.NewFromFloat(price),
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
	}, nil
}

// ImpliedVolatility 用 Newton 迭代从市场价格反推隐含波动率。
func ImpliedVolatility(kind OptionType, input BlackScholesInput, marketPrice float64) (float64, error) {
	if input.S <= 0 || input.K <= 0 || input.T <= 0 || marketPrice <= 0 {
		return 0, ErrInvalidSpec
	}

	sigma := 0.3
	const tolerance = 0.0001
	const maxIterations = 100

	for range maxIterations {
		input.V = sigma
		result, err := CalculateBlackScholes(kind, input)
		if err != nil {
			return 0, err
		}
		diff := result.Price.InexactFloat64() - marketPrice
		if math.Abs(diff) < tolerance {
			return sigma, nil
		}
		vega := result.Vega.InexactFloat64()
		if vega == 0 {
			break
		}
		sigma -= diff / vega
		if sigma < 0 {
			sigma = 0.001
		}
	}
	return sigma, nil
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
