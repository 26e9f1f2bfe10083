package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// echo.Validatorの実装（go-playground/validator）
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

// JWT claimsから認可判断に必要なactorを組み立てる
func actorFromContext(c echo.Context) (model.User, bool) {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return model.User{}, false
	}

	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	if role == "" {
		return model.User{}, false
	}

	actor := model.User{
		ID:   id,
		Role: model.Role(role),
	}
	if storeID, ok := c.Get(middleware.CtxStoreIDKey).(int64); ok && storeID > 0 {
		actor.StoreID = &storeID
	}

	return actor, true
}
