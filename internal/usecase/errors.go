package usecase

import (
	"errors"
	"fmt"
)

// usecaseのエラーはHTTPステータス＋メッセージで表す。
// Validation=400 / NotFound=404 / Conflict・在庫不足=409 / それ以外=500。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
