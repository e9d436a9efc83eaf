package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// PricingResultModel MySQL 定价结果表映射
type PricingResultModel struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	Symbol          string          `gorm:"column:symbol;type:varchar(32);index;not null;comment:合约标识"`
	Model           string          `gorm:"column:model;type:varchar(20);not null;comment:定价模型"`
	Kind            string          `gorm:"column:kind;type:varchar(10);not null"`
	Style           string          `gorm:"column:style;type:varchar(10);not null"`
	OptionPrice     decimal.Decimal `gorm:"column:option_price;type:decimal(32,18);not null"`
	UnderlyingPrice decimal.Decimal `gorm:"column:underlying_price;type:decimal(32,18);not null"`
	StrikePrice     decimal.Decimal `gorm:"column:strike_price;type:decimal(32,18);not null"`
	Maturity        float64         `gorm:"column:maturity;not null"`
	Volatility      float64         `gorm:"column:volatility;not null"`
	RiskFreeRate    float64         `gorm:"column:risk_free_rate;not null"`
	DividendYield   float64         `gorm:"column:dividend_yield;not null"`
	Steps           int             `gorm:"column:steps;not null"`
	Delta           decimal.Decimal `gorm:"column:delta;type:decimal(32,18);not null"`
	Gamma           decimal.Decimal `gorm:"column:gamma;type:decimal(32,18);not null"`
	Theta           decimal.Decimal `gorm:"column:theta;type:decimal(32,18);not null"`
	Vega            decimal.Decimal `gorm:"column:vega;type:decimal(32,18);not null"`
	Rho             decimal.Decimal `gorm:"column:rho;type:decimal(32,18);not null"`
	CalculatedAt    int64           `gorm:"column:calculated_at;index;not null"`
}

func (PricingResultModel) TableName() string { return "pricing_results" }

// --- mapping helpers ---

func toResultModel(r *domain.PricingResult) *PricingResultModel {
	return &PricingResultModel{
		ID:              r.ID,
		Symbol:          r.Symbol,
		Model:           string(r.Model),
		Kind:            string(r.Kind),
		Style:           string(r.Style),
		OptionPrice:     r.OptionPrice,
		UnderlyingPrice: r.UnderlyingPrice,
		StrikePrice:     r.StrikePrice,
		Maturity:        r.Maturity,
		Volatility:      r.Volatility,
		RiskFreeRate:    r.RiskFreeRate,
		DividendYield:   r.DividendYield,
		Steps:           r.Steps,
		Delta:           r.Delta,
		Gamma:           r.Gamma,
		Theta:           r.Theta,
		Vega:            r.Vega,
		Rho:             r.Rho,
		CalculatedAt:    r.CalculatedAt,
	}
}

func toResult(m *PricingResultModel) *domain.PricingResult {
	return &domain.PricingResult{
		ID:              m.ID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Symbol:          m.Symbol,
		Model:           domain.PricingModelType(m.Model),
		Kind:            domain.OptionType(m.Kind),
		Style:           domain.ExerciseStyle(m.Style),
		OptionPrice:     m.OptionPrice,
		UnderlyingPrice: m.UnderlyingPrice,
		StrikePrice:     m.StrikePrice,
		Maturity:        m.Maturity,
		Volatility:      m.Volatility,
		RiskFreeRate:    m.RiskFreeRate,
		DividendYield:   m.DividendYield,
		Steps:           m.Steps,
		Delta:           m.Delta,
		Gamma:           m.Gamma,
		Theta:           m.Theta,
		Vega:            m.Vega,
		Rho:             m.Rho,
		CalculatedAt:    m.CalculatedAt,
	}
}
