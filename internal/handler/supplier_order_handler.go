package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"
)

// 発注（店長→サプライヤー）のAPI。
type SupplierOrderHandler struct {
	uc *usecase.SupplierOrderUsecase
}

func NewSupplierOrderHandler(uc *usecase.SupplierOrderUsecase) *SupplierOrderHandler {
	return &SupplierOrderHandler{uc: uc}
}

func (h *SupplierOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/supplier-orders")
	g.Use(middleware.AuthJWT(cfg))

	manager := middleware.RequireRoles(string(model.RoleManager))
	supplier := middleware.RequireRoles(string(model.RoleSupplier))
	both := middleware.RequireRoles(string(model.RoleManager), string(model.RoleSupplier))

	g.POST("", h.create, manager)
	g.GET("", h.list, both)
	g.GET("/:id", h.detail, both)

	g.POST("/:id/approve", h.approve, supplier)
	g.POST("/:id/reject", h.reject, supplier)

	g.POST("/:id/cancel", h.cancel, manager)
	g.POST("/:id/delivery", h.acceptDelivery, manager)
	g.POST("/:id/close", h.close, manager)
}

type SupplierOrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateSupplierOrderRequest struct {
	SupplierID int64                      `json:"supplier_id"`
	Items      []SupplierOrderItemRequest `json:"items"`
	Notes      string                     `json:"notes"`
}

func (h *SupplierOrderHandler) create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateSupplierOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	out, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateSupplierOrderInput{
		SupplierID: req.SupplierID,
		Items:      items,
		Notes:      req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *SupplierOrderHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var (
		out []usecase.SupplierOrderOutput
		err error
	)
	if actor.Role == model.RoleSupplier {
		out, err = h.uc.ListBySupplier(c.Request().Context(), actor.ID)
	} else {
		out, err = h.uc.ListByManager(c.Request().Context(), actor.ID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SupplierOrderHandler) detail(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetDetail(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type ApproveSupplierOrderRequest struct {
	//RFC3339。未来日時であること
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	Notes                string    `json:"notes"`
}

func (h *SupplierOrderHandler) approve(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ApproveSupplierOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Approve(c.Request().Context(), userID, id, usecase.ApproveSupplierOrderInput{
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

func (h *SupplierOrderHandler) reject(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Reject(c.Request().Context(), userID, id, req.Notes); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SupplierOrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, id, req.Notes); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type DeliveryItemRequest struct {
	ProductID         int64 `json:"product_id"`
	DeliveredQuantity int64 `json:"delivered_quantity"`
}

type AcceptDeliveryRequest struct {
	Items []DeliveryItemRequest `json:"items"`
	Notes string                `json:"notes"`
}

func (h *SupplierOrderHandler) acceptDelivery(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AcceptDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	delivered := make(map[int64]int64, len(req.Items))
	for _, it := range req.Items {
		delivered[it.ProductID] = it.DeliveredQuantity
	}

	out, err := h.uc.AcceptDelivery(c.Request().Context(), userID, id, usecase.AcceptDeliveryInput{
		DeliveredQuantities: delivered,
		Notes:               req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SupplierOrderHandler) close(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Close(c.Request().Context(), userID, id, req.Notes); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
