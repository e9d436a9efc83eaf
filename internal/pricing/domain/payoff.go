package domain

import (
	"github.com/expr-lang/expr"
	"github.com/wyfcoding/pkg/xerrors"
)

// CompilePayoff 将用户提供的收益表达式编译为 PayoffFunc。
// 表达式以 S 引用终端价格，支持 expr 内建的 max/min/abs 等函数，
// 例如 "max(S - 100, 0)" 即普通看涨。未知标识符在编译期报错，
// 不会在模拟过程中才暴露。
func CompilePayoff(expression string) (PayoffFunc, error) {
	program, err := expr.Compile(expression, expr.Env(payoffEnv(0)))
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidArg, "invalid payoff expression")
	}
	return func(terminalPrice float64) (float64, error) {
		out, runErr := expr.Run(program, payoffEnv(terminalPrice))
		if runErr != nil {
			return 0, xerrors.Wrap(runErr, xerrors.ErrInvalidArg, "payoff evaluation failed")
		}
		return toFloat(out)
	}, nil
}

func payoffEnv(s float64) map[string]any {
	return map[string]any{"S": s}
}

func toFloat(out any) (float64, error) {
	switch v := out.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	default:
		return 0, xerrors.New(xerrors.ErrInvalidArg, 400106, "payoff expression is not numeric", "the expression must evaluate to a number", nil)
	}
}
