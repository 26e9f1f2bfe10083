package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"
)

// 顧客注文のAPI。作成・取消は顧客、完了/却下は店長。
type CustomerOrderHandler struct {
	uc *usecase.CustomerOrderUsecase
}

func NewCustomerOrderHandler(uc *usecase.CustomerOrderUsecase) *CustomerOrderHandler {
	return &CustomerOrderHandler{uc: uc}
}

func (h *CustomerOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	customer := middleware.RequireRoles(string(model.RoleCustomer))
	manager := middleware.RequireRoles(string(model.RoleManager))
	both := middleware.RequireRoles(string(model.RoleCustomer), string(model.RoleManager))

	g.POST("", h.place, customer)
	g.GET("", h.list, both)
	g.GET("/:id", h.detail, both)
	g.POST("/:id/cancel", h.cancel, customer)
	g.PATCH("/:id/status", h.updateStatus, manager)
}

type PlaceOrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderRequest struct {
	StoreID int64                   `json:"store_id"`
	Items   []PlaceOrderItemRequest `json:"items"`
	Notes   string                  `json:"notes"`
}

func (h *CustomerOrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PlaceOrderRequest
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

	out, err := h.uc.Place(c.Request().Context(), userID, usecase.PlaceCustomerOrderInput{
		StoreID: req.StoreID,
		Items:   items,
		Notes:   req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerOrderHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	//店長は自店舗分、顧客は自分の注文
	var (
		out []usecase.CustomerOrderOutput
		err error
	)
	if actor.Role == model.RoleManager {
		out, err = h.uc.ListStoreOrders(c.Request().Context(), actor)
	} else {
		out, err = h.uc.ListMyOrders(c.Request().Context(), actor.ID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerOrderHandler) detail(c echo.Context) error {
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

type CancelOrderRequest struct {
	Notes string `json:"notes"`
}

func (h *CustomerOrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, id, req.Notes); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *CustomerOrderHandler) updateStatus(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), actor, id, model.CustomerOrderStatus(req.Status), req.Notes); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
