package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/httpserver/middleware"
	"tradedesk-system/internal/services/sales"
)

type SalesHTTPHandler struct {
	engine *sales.Engine
}

func NewSalesHTTPHandler(engine *sales.Engine) *SalesHTTPHandler {
	return &SalesHTTPHandler{engine: engine}
}

func (h *SalesHTTPHandler) CreateSale(c *gin.Context) {
	user := middleware.Identity(c)
	if !auth.HasCapability(user.Role, auth.CapRecordSale) {
		respondError(c, apperr.Forbidden("recording sales is not permitted for this role"))
		return
	}

	var req sales.CreateSaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	sale, err := h.engine.CreateSale(req, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SalesHTTPHandler) ListSales(c *gin.Context) {
	if c.Query("id") != "" {
		id, err := idQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		sale, err := h.engine.GetSale(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
		return
	}

	summaries, err := h.engine.ListSales()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *SalesHTTPHandler) UpdateSale(c *gin.Context) {
	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req sales.UpdateSaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	sale, err := h.engine.UpdateSale(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SalesHTTPHandler) DeleteSale(c *gin.Context) {
	id, err := idQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.engine.DeleteSale(id, middleware.Identity(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale deleted and stock restored"})
}
