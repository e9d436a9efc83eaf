package domain

import "github.com/wyfcoding/pkg/xerrors"

var (
	// ErrInvalidSpec 定价输入不满足前置条件（S0/K/T/sigma 非正、q 为负或 n < 1）。
	ErrInvalidSpec = xerrors.New(xerrors.ErrInvalidArg, 400101, "invalid option spec", "spot, strike, maturity and volatility must be positive; dividend yield non-negative; steps >= 1", nil)
	// ErrInvalidOptionKind 未识别的期权类型。
	ErrInvalidOptionKind = xerrors.New(xerrors.ErrInvalidArg, 400102, "invalid option kind", "supported kinds: CALL, PUT", nil)
	// ErrInvalidExerciseStyle 未识别的行权方式。
	ErrInvalidExerciseStyle = xerrors.New(xerrors.ErrInvalidArg, 400103, "invalid exercise style", "supported styles: EUROPEAN, AMERICAN", nil)
	// ErrProbabilityOutOfRange 风险中性概率落在 (0,1) 开区间之外。
	// 说明该 sigma/dt/r/q 组合与无套利二叉树模型不一致，拒绝而非截断。
	ErrProbabilityOutOfRange = xerrors.New(xerrors.ErrInvalidArg, 400104, "risk-neutral probability out of range", "the volatility, steps, rate and dividend combination is inconsistent with a risk-neutral binomial model", nil)
	// ErrInvalidSimulation 蒙特卡洛参数不合法。
	ErrInvalidSimulation = xerrors.New(xerrors.ErrInvalidArg, 400105, "invalid monte carlo parameters", "spot, maturity and volatility must be positive; paths >= 1", nil)
)
