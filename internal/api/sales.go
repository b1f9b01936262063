package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesdesk/m/domain"
	"salesdesk/m/internal/sales"
)

type createItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createSaleRequest struct {
	CustomerID int64               `json:"customer_id"`
	BranchID   int64               `json:"branch_id"`
	Items      []createItemRequest `json:"items"`
}

type updateItemRequest struct {
	ID        uuid.UUID       `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Cancelled bool            `json:"cancelled"`
}

type updateSaleRequest struct {
	CustomerID int64               `json:"customer_id"`
	BranchID   int64               `json:"branch_id"`
	Cancelled  bool                `json:"cancelled"`
	Items      []updateItemRequest `json:"items"`
}

type saleItemResponse struct {
	ID                     uuid.UUID `json:"id"`
	SaleID                 uuid.UUID `json:"sale_id"`
	ProductID              int64     `json:"product_id"`
	Quantity               int       `json:"quantity"`
	UnitPrice              string    `json:"unit_price"`
	DiscountPercentage     string    `json:"discount_percentage"`
	UnitDiscount           string    `json:"unit_discount"`
	UnitPriceAfterDiscount string    `json:"unit_price_after_discount"`
	Total                  string    `json:"total"`
	TotalDiscount          string    `json:"total_discount"`
	TotalAfterDiscount     string    `json:"total_after_discount"`
	Cancelled              bool      `json:"cancelled"`
}

type saleResponse struct {
	ID                 uuid.UUID          `json:"id"`
	SaleNumber         int64              `json:"sale_number"`
	CreatedAt          time.Time          `json:"created_at"`
	CustomerID         int64              `json:"customer_id"`
	BranchID           int64              `json:"branch_id"`
	Total              string             `json:"total"`
	TotalDiscount      string             `json:"total_discount"`
	TotalAfterDiscount string             `json:"total_after_discount"`
	Cancelled          bool               `json:"cancelled"`
	Items              []saleItemResponse `json:"items"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmd := sales.CreateSaleCommand{CustomerID: req.CustomerID, BranchID: req.BranchID}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, sales.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.sales.Create(r.Context(), cmd)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSale(w, r, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := h.sales.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSale(w, r, http.StatusOK, sale)
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var req updateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmd := sales.UpdateSaleCommand{
		ID:         id,
		CustomerID: req.CustomerID,
		BranchID:   req.BranchID,
		Cancelled:  req.Cancelled,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, sales.UpdateItemInput{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Cancelled: item.Cancelled,
		})
	}

	sale, err := h.sales.Update(r.Context(), cmd)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondSale(w, r, http.StatusOK, sale)
}

func (h *Handler) respondSale(w http.ResponseWriter, r *http.Request, status int, sale *domain.Sale) {
	resp, err := toSaleResponse(sale)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, status, resp)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Errors: verr.Errors})
	case errors.Is(err, domain.ErrDomainRuleViolation):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "sale not found")
	default:
		h.logger.Error("request failed",
			zap.String("request_id", requestID(r)),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toSaleResponse(sale *domain.Sale) (saleResponse, error) {
	items := make([]saleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		resp, err := toItemResponse(item)
		if err != nil {
			return saleResponse{}, err
		}
		items = append(items, resp)
	}

	return saleResponse{
		ID:                 sale.ID,
		SaleNumber:         sale.Number,
		CreatedAt:          sale.CreatedAt,
		CustomerID:         sale.CustomerID,
		BranchID:           sale.BranchID,
		Total:              money(sale.Total()),
		TotalDiscount:      money(sale.TotalDiscount()),
		TotalAfterDiscount: money(sale.TotalAfterDiscount()),
		Cancelled:          sale.IsCancelled(),
		Items:              items,
	}, nil
}

func toItemResponse(item *domain.SaleItem) (saleItemResponse, error) {
	unitDiscount, err := item.UnitDiscount()
	if err != nil {
		return saleItemResponse{}, err
	}
	unitAfter, err := item.UnitPriceAfterDiscount()
	if err != nil {
		return saleItemResponse{}, err
	}

	return saleItemResponse{
		ID:                     item.ID,
		SaleID:                 item.SaleID,
		ProductID:              item.ProductID,
		Quantity:               item.Quantity,
		UnitPrice:              money(item.UnitPrice),
		DiscountPercentage:     item.DiscountPercentage().StringFixed(2),
		UnitDiscount:           money(unitDiscount),
		UnitPriceAfterDiscount: money(unitAfter),
		Total:                  money(item.LineTotal()),
		TotalDiscount:          money(item.LineDiscount()),
		TotalAfterDiscount:     money(item.LineTotalAfterDiscount()),
		Cancelled:              item.IsCancelled(),
	}, nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
