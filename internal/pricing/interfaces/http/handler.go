package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// PricingHandler HTTP 处理器
// 负责处理与期权定价相关的 HTTP 请求
type PricingHandler struct {
	cmd   *application.PricingCommandService
	query *application.PricingQueryService
}

// 创建 HTTP 处理器实例
func NewPricingHandler(cmd *application.PricingCommandService, query *application.PricingQueryService) *PricingHandler {
	return &PricingHandler{cmd: cmd, query: query}
}

// 注册路由
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/option/price", h.PriceOption)
		api.POST("/option/batch", h.BatchPriceOptions)
		api.POST("/option/montecarlo", h.PriceMonteCarlo)
		api.POST("/option/greeks", h.CalculateGreeks)
		api.GET("/option/result/:symbol", h.GetLatest)
		api.GET("/option/history/:symbol", h.GetHistory)
	}
}

// PriceOptionRequest 期权定价请求
type PriceOptionRequest struct {
	Symbol          string  `json:"symbol" binding:"required"`
	Kind            string  `json:"kind" binding:"required"`
	Style           string  `json:"style"`
	Model           string  `json:"model"`
	UnderlyingPrice float64 `json:"underlying_price"`
	StrikePrice     float64 `json:"strike_price" binding:"required"`
	Maturity        float64 `json:"maturity" binding:"required"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility" binding:"required"`
	DividendYield   float64 `json:"dividend_yield"`
	Steps           int     `json:"steps"`
}

func (r PriceOptionRequest) toCommand() application.PriceOptionCommand {
	return application.PriceOptionCommand{
		Symbol:          r.Symbol,
		Kind:            r.Kind,
		Style:           r.Style,
		Model:           r.Model,
		UnderlyingPrice: r.UnderlyingPrice,
		StrikePrice:     r.StrikePrice,
		Maturity:        r.Maturity,
		RiskFreeRate:    r.RiskFreeRate,
		Volatility:      r.Volatility,
		DividendYield:   r.DividendYield,
		Steps:           r.Steps,
	}
}

// PriceOption 单合约定价
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var req PriceOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.cmd.PriceOption(c.Request.Context(), req.toCommand())
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to price option", "symbol", req.Symbol, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BatchPriceOptionsRequest 批量定价请求
type BatchPriceOptionsRequest struct {
	BatchID   string               `json:"batch_id"`
	Contracts []PriceOptionRequest `json:"contracts" binding:"required,min=1"`
}

// BatchPriceOptions 批量定价
func (h *PricingHandler) BatchPriceOptions(c *gin.Context) {
	var req BatchPriceOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	contracts := make([]application.PriceOptionCommand, len(req.Contracts))
	for i, contract := range req.Contracts {
		contracts[i] = contract.toCommand()
	}

	result, err := h.cmd.BatchPriceOptions(c.Request.Context(), application.BatchPriceOptionsCommand{
		BatchID:   req.BatchID,
		Contracts: contracts,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to batch price options", "batch_id", req.BatchID, "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PriceMonteCarloRequest 蒙特卡洛定价请求
type PriceMonteCarloRequest struct {
	Symbol       string  `json:"symbol"`
	Spot         float64 `json:"spot" binding:"required"`
	Maturity     float64 `json:"maturity" binding:"required"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Volatility   float64 `json:"volatility" binding:"required"`
	Paths        int     `json:"paths"`
	Seed         int64   `json:"seed"`
	Payoff       string  `json:"payoff" binding:"required"`
}

// PriceMonteCarlo 蒙特卡洛定价
func (h *PricingHandler) PriceMonteCarlo(c *gin.Context) {
	var req PriceMonteCarloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	price, err := h.cmd.PriceMonteCarlo(c.Request.Context(), application.PriceMonteCarloCommand{
		Symbol:       req.Symbol,
		Spot:         req.Spot,
		Maturity:     req.Maturity,
		RiskFreeRate: req.RiskFreeRate,
		Volatility:   req.Volatility,
		Paths:        req.Paths,
		Seed:         req.Seed,
		Payoff:       req.Payoff,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to run monte carlo pricing", "error", err)
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"price": price})
}

// CalculateGreeksRequest 希腊字母计算请求
type CalculateGreeksRequest struct {
	Kind            string  `json:"kind" binding:"required"`
	UnderlyingPrice float64 `json:"underlying_price" binding:"required"`
	StrikePrice     float64 `json:"strike_price" binding:"required"`
	Maturity        float64 `json:"maturity" binding:"required"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility" binding:"required"`
	DividendYield   float64 `json:"dividend_yield"`
}

// CalculateGreeks 按闭式公式计算希腊字母
func (h *PricingHandler) CalculateGreeks(c *gin.Context) {
	var req CalculateGreeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.query.GetGreeks(c.Request.Context(), application.GreeksQuery{
		Kind:            req.Kind,
		UnderlyingPrice: req.UnderlyingPrice,
		StrikePrice:     req.StrikePrice,
		Maturity:        req.Maturity,
		RiskFreeRate:    req.RiskFreeRate,
		Volatility:      req.Volatility,
		DividendYield:   req.DividendYield,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetLatest 最近定价结果
func (h *PricingHandler) GetLatest(c *gin.Context) {
	symbol := c.Param("symbol")

	result, err := h.query.GetLatestResult(c.Request.Context(), symbol)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetHistory 历史定价记录
func (h *PricingHandler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	results, err := h.query.GetHistory(c.Request.Context(), symbol, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"symbol": symbol, "results": results})
}
