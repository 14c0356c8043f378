package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/karyawan-web/internal/adapters/http/view"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	"github.com/ogurasousui/karyawan-web/internal/platform/logger"
)

func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return he
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrInvalidID):
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found.")
	case errors.Is(err, employee.ErrInvalidSortField), errors.Is(err, employee.ErrInvalidSortOrder):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, employee.ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// NewErrorHandler はエラーをステータスコードに変換しエラーページを描画する echo.HTTPErrorHandler を返します。
func NewErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := toHTTPError(err)
		log := logger.FromContext(c.Request().Context())
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Msg("request failed")
		}

		msg := fmt.Sprint(he.Message)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}

		if rerr := c.Render(he.Code, view.PageError, view.ErrorPage{
			Layout:  view.Layout{Title: http.StatusText(he.Code)},
			Status:  he.Code,
			Message: msg,
		}); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(he.Code, msg)
		}
	}
}
