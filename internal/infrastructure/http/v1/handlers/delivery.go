package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
	"stockpile/internal/domain/documents/delivery"
	"stockpile/internal/infrastructure/http/v1/dto"
)

// DeliveryHandler handles HTTP requests for delivery documents.
type DeliveryHandler struct {
	*DocumentHandler[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]
	service *delivery.Service
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service) *DeliveryHandler {
	cfg := DocumentHandlerConfig[*delivery.Delivery, dto.CreateDeliveryRequest, dto.UpdateDeliveryRequest]{
		Service:    service,
		EntityName: "delivery",
		MapCreateDTO: func(req dto.CreateDeliveryRequest) *delivery.Delivery {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateDeliveryRequest, existing *delivery.Delivery) *delivery.Delivery {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *delivery.Delivery) any {
			return dto.FromDelivery(doc)
		},
	}

	return &DeliveryHandler{
		DocumentHandler: NewDocumentHandler(base, cfg),
		service:         service,
	}
}

// List handles GET /documents/deliveries - list with filtering.
func (h *DeliveryHandler) List(c *gin.Context) {
	filter := delivery.ListFilter{
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

	items := make([]*dto.DeliveryResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromDelivery(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers delivery routes.
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.DocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
}
