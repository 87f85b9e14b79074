package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
	"stockpile/internal/domain/documents/adjustment"
	"stockpile/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler handles HTTP requests for adjustment documents.
type AdjustmentHandler struct {
	*DocumentHandler[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]
	service *adjustment.Service
}

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustment.Service) *AdjustmentHandler {
	cfg := DocumentHandlerConfig[*adjustment.Adjustment, dto.CreateAdjustmentRequest, dto.UpdateAdjustmentRequest]{
		Service:    service,
		EntityName: "adjustment",
		MapCreateDTO: func(req dto.CreateAdjustmentRequest) *adjustment.Adjustment {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateAdjustmentRequest, existing *adjustment.Adjustment) *adjustment.Adjustment {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *adjustment.Adjustment) any {
			return dto.FromAdjustment(doc)
		},
	}

	return &AdjustmentHandler{
		DocumentHandler: NewDocumentHandler(base, cfg),
		service:         service,
	}
}

// List handles GET /documents/adjustments - list with filtering.
func (h *AdjustmentHandler) List(c *gin.Context) {
	filter := adjustment.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		if parsed, err := id.Parse(warehouseID); err == nil {
			filter.WarehouseID = &parsed
		}
	}
	if status := c.Query("status"); status != "" {
		if parsed, err := entity.ParseStatus(status); err == nil {
			filter.Status = &parsed
		}
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.AdjustmentResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromAdjustment(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers adjustment routes.
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.DocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
}
