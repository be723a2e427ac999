package handler

import (
	"errors"
	"net/http"

	"github.com/tarekelsergany/gold-ecommerce/internal/dto"
	"github.com/tarekelsergany/gold-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GoldPriceHandler struct{ svc service.GoldPriceService }

func NewGoldPriceHandler(svc service.GoldPriceService) *GoldPriceHandler {
	return &GoldPriceHandler{svc: svc}
}

// Latest godoc
// @Summary      Current gold price
// @Description  Returns the most recent gold price per gram, or a zero price when none has been set yet.
// @Tags         gold-price
// @Produce      json
// @Success      200 {object} dto.GoldPriceResponse
// @Router       /api/gold-price [get]
func (h *GoldPriceHandler) Latest(c *gin.Context) {
	resp, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// Contract: an empty table is not an error for the frontend.
			c.JSON(http.StatusOK, dto.GoldPriceResponse{PricePerGram: decimal.Zero})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Set a new gold price and reprice all active products
// @Tags         gold-price
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateGoldPriceRequest true "New price per gram"
// @Success      200 {object} dto.RecalculationResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/gold-price [post]
func (h *GoldPriceHandler) Update(c *gin.Context) {
	var req dto.UpdateGoldPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyNewPrice(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
