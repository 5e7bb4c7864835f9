package handler

import (
	"errors"
	"net/http"

	"app/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError はusecaseの型付きエラーをHTTPステータスへ写す。
// 分類外のエラー（DB障害など）は本文に生のエラーを出さない。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case apperr.IsValidation(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrUserNotFound),
		errors.Is(err, apperr.ErrProductNotFound),
		errors.Is(err, apperr.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
