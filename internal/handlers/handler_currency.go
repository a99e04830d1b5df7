package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/iswift/iswift_backend/internal/dto"
)

// currencyHandler handles HTTP requests related to currencies and conversion rates.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers the public currency directory.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)
	rg.GET("/currencies", h.listCurrencies)
}

// registerRateRoutes registers conversion rate lookups.
func registerRateRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)
	rg.GET("/rates/:base/:target", h.getRate)
}

// listCurrencies godoc
// @Summary List currencies
// @Description Retrieves the currencies accounts can be opened in.
// @Tags currencies
// @Produce  json
// @Param   includeInactive query bool false "Include disabled currencies"
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} ErrorResponse
// @Router /finance/currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	var params dto.ListCurrenciesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), !params.IncludeInactive)
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getRate godoc
// @Summary Resolve a conversion rate
// @Description Returns the factor converting base into target and, when amount is given, the converted amount.
// @Tags currencies
// @Produce  json
// @Param   base path string true "Base ISO code"
// @Param   target path string true "Target ISO code"
// @Param   amount query string false "Amount in the base currency"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Rate unavailable"
// @Security BearerAuth
// @Router /finance/rates/{base}/{target} [get]
func (h *currencyHandler) getRate(c *gin.Context) {
	ctx := c.Request.Context()
	base, target := domain.NormalizeISOCode(c.Param("base")), domain.NormalizeISOCode(c.Param("target"))

	rate, _, err := h.currencyService.ResolveRate(ctx, base, target)
	if err != nil {
		respondError(c, err, "Conversion rate unavailable")
		return
	}

	res := dto.RateResponse{Base: base, Target: target, Rate: rate}
	if raw, ok := c.GetQuery("amount"); ok {
		amount, err := services.ParseAmount(raw)
		if err != nil {
			respondError(c, err, "Invalid amount")
			return
		}
		converted, err := h.currencyService.Convert(ctx, base, target, amount)
		if err != nil {
			respondError(c, err, "Conversion rate unavailable")
			return
		}
		res.Amount = &amount
		res.ConvertedAmount = &converted
	}
	c.JSON(http.StatusOK, res)
}
