package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
	"stockpile/internal/domain/documents/transfer"
	"stockpile/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles HTTP requests for transfer documents.
type TransferHandler struct {
	*DocumentHandler[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]
	service *transfer.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	cfg := DocumentHandlerConfig[*transfer.Transfer, dto.CreateTransferRequest, dto.UpdateTransferRequest]{
		Service:    service,
		EntityName: "transfer",
		MapCreateDTO: func(req dto.CreateTransferRequest) *transfer.Transfer {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateTransferRequest, existing *transfer.Transfer) *transfer.Transfer {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *transfer.Transfer) any {
			return dto.FromTransfer(doc)
		},
	}

	return &TransferHandler{
		DocumentHandler: NewDocumentHandler(base, cfg),
		service:         service,
	}
}

// List handles GET /documents/transfers - list with filtering.
func (h *TransferHandler) List(c *gin.Context) {
	filter := transfer.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if sourceID := c.Query("sourceWarehouseId"); sourceID != "" {
		if parsed, err := id.Parse(sourceID); err == nil {
			filter.SourceWarehouseID = &parsed
		}
	}
	if destID := c.Query("destWarehouseId"); destID != "" {
		if parsed, err := id.Parse(destID); err == nil {
			filter.DestWarehouseID = &parsed
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

	items := make([]*dto.TransferResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromTransfer(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers transfer routes.
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.DocumentHandler.RegisterRoutes(rg)
	rg.GET("", h.List)
}
