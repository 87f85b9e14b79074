package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain/registers/stock"
	"stockpile/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes the stock register: the move ledger, materialized
// balances, turnover reports and reconciliation.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListMoves handles GET /registers/stock/movements - query the ledger.
func (h *StockHandler) ListMoves(c *gin.Context) {
	filter := stock.MoveFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}
	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}
	if documentID := c.Query("documentId"); documentID != "" {
		if parsed, err := id.Parse(documentID); err == nil {
			filter.DocumentID = &parsed
		}
	}
	if documentType := c.Query("documentType"); documentType != "" {
		filter.DocumentType = &documentType
	}
	if direction := c.Query("direction"); direction != "" {
		d := entity.Direction(direction)
		if d == entity.DirectionIn || d == entity.DirectionOut {
			filter.Direction = &d
		}
	}
	if fromDate := c.Query("dateFrom"); fromDate != "" {
		if parsed, err := time.Parse(time.RFC3339, fromDate); err == nil {
			filter.FromDate = &parsed
		}
	}
	if toDate := c.Query("dateTo"); toDate != "" {
		if parsed, err := time.Parse(time.RFC3339, toDate); err == nil {
			filter.ToDate = &parsed
		}
	}

	moves, total, err := h.service.ListMoves(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromStockMoves(moves),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// GetMovesByDocument handles GET /registers/stock/movements/by-document/:id.
func (h *StockHandler) GetMovesByDocument(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	moves, err := h.service.GetMovesByDocument(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromStockMoves(moves)})
}

// ListBalances handles GET /registers/stock/balances.
// Either warehouseId or productId must be set.
func (h *StockHandler) ListBalances(c *gin.Context) {
	ctx := c.Request.Context()

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId").
				WithDetail("warehouseId", warehouseID))
			return
		}

		balances, err := h.service.GetWarehouseStock(ctx, parsed)
		if err != nil {
			h.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": dto.FromStockBalances(balances)})
		return
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId").
				WithDetail("productId", productID))
			return
		}

		balances, err := h.service.GetBalancesByProduct(ctx, parsed)
		if err != nil {
			h.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": dto.FromStockBalances(balances)})
		return
	}

	h.Error(c, apperror.NewValidation("either warehouseId or productId is required"))
}

// GetBalance handles GET /registers/stock/balances/:warehouseId/:productId.
func (h *StockHandler) GetBalance(c *gin.Context) {
	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", c.Param("warehouseId")))
		return
	}

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId").
			WithDetail("productId", c.Param("productId")))
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), warehouseID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockBalance(balance))
}

// GetAvailability handles GET /registers/stock/availability/:productId -
// total quantity of a product across all warehouses.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId").
			WithDetail("productId", c.Param("productId")))
		return
	}

	available, err := h.service.GetProductAvailability(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		ProductID: productID.String(),
		Available: available,
	})
}

// GetTurnover handles GET /registers/stock/turnovers - opening balance,
// inbound, outbound and closing balance for a period.
func (h *StockHandler) GetTurnover(c *gin.Context) {
	var filter stock.TurnoverFilter

	fromDate, err := time.Parse(time.RFC3339, c.Query("dateFrom"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateFrom is required in RFC3339 format"))
		return
	}
	filter.FromDate = fromDate

	toDate, err := time.Parse(time.RFC3339, c.Query("dateTo"))
	if err != nil {
		h.Error(c, apperror.NewValidation("dateTo is required in RFC3339 format"))
		return
	}
	filter.ToDate = toDate

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}
	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}

	turnover, err := h.service.GetTurnover(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, turnover)
}

// Reconcile handles POST /registers/stock/reconcile - compare the ledger
// against materialized balances and flag divergent products. Admin only.
func (h *StockHandler) Reconcile(c *gin.Context) {
	report, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// RegisterRoutes registers stock register routes.
// The reconcile route is attached separately so the router can guard it
// with the admin middleware.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/movements", h.ListMoves)
	rg.GET("/movements/by-document/:id", h.GetMovesByDocument)
	rg.GET("/balances", h.ListBalances)
	rg.GET("/balances/:warehouseId/:productId", h.GetBalance)
	rg.GET("/availability/:productId", h.GetAvailability)
	rg.GET("/turnovers", h.GetTurnover)
}
