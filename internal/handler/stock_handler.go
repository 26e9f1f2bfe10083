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

// 店長向けの在庫台帳API。操作対象は自店舗のみ。
type StockHandler struct {
	uc *usecase.StockUsecase
}

func NewStockHandler(uc *usecase.StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/stock")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRoles(string(model.RoleManager)))

	g.GET("", h.list)
	g.GET("/:productID", h.ledger)
	g.POST("/:productID/movements", h.applyMovement)
}

type MovementRequest struct {
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

// JWTのstore_id claimから店長の店舗を取り出す
func managerStoreID(c echo.Context) (int64, bool) {
	actor, ok := actorFromContext(c)
	if !ok || actor.StoreID == nil || *actor.StoreID <= 0 {
		return 0, false
	}
	return *actor.StoreID, true
}

func (h *StockHandler) list(c echo.Context) error {
	storeID, ok := managerStoreID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "manager has no store"})
	}

	//status指定があれば絞り込み
	if v := c.QueryParam("status"); v != "" {
		out, err := h.uc.ListByStatus(c.Request().Context(), storeID, model.StockStatus(v))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	out, err := h.uc.ListLedger(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) ledger(c echo.Context) error {
	storeID, ok := managerStoreID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "manager has no store"})
	}

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	out, err := h.uc.GetLedger(c.Request().Context(), storeID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) applyMovement(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	storeID, ok := managerStoreID(c)
	if !ok {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "manager has no store"})
	}

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req MovementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ApplyMovement(c.Request().Context(), storeID, productID, usecase.ApplyMovementInput{
		Type:        model.StockMovementType(req.Type),
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Reference:   req.Reference,
		PerformedBy: userID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
