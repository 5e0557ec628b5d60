package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
	"github.com/fekuna/omnipos-pos-service/pkg/i18n"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

// Codes for errors that carry no message id of their own.
const (
	CodeUpstreamRejected    = "upstream.rejected"
	CodeUpstreamUnavailable = "upstream.unavailable"
	CodeRequestInvalid      = "request.invalid"
	CodeRouteNotFound       = "route.not_found"
	CodeMethodNotAllowed    = "route.method_not_allowed"
	CodeInternal            = "internal"
)

// echo has no constant for this one.
const headerAcceptLanguage = "Accept-Language"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorHandler renders every error as {"error", "code"}. Cashier-facing
// rejections are localized from Accept-Language; messages from the store API
// are passed through as the server wrote them.
func ErrorHandler(log logger.ZapLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err, c.Request().Header.Get(headerAcceptLanguage))
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context(), log).Error("request failed",
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("failed to write error response", zap.Error(err))
		}
	}
}

func render(err error, lang string) (int, ErrorResponse) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := http.StatusUnprocessableEntity
		if appErr.Code == apperror.CodeUnauthenticated {
			status = http.StatusUnauthorized
		}
		return status, ErrorResponse{Error: i18n.T(appErr.MessageID, appErr.Data, lang), Code: appErr.MessageID}
	}

	var apiErr *restclient.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusConflict
		if apiErr.Status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return status, ErrorResponse{Error: apiErr.Message, Code: CodeUpstreamRejected}
	}

	if errors.Is(err, restclient.ErrUnavailable) {
		return http.StatusBadGateway, ErrorResponse{Error: i18n.T(CodeUpstreamUnavailable, nil, lang), Code: CodeUpstreamUnavailable}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, ErrorResponse{Error: i18n.T(CodeRouteNotFound, nil, lang), Code: CodeRouteNotFound}
		case http.StatusMethodNotAllowed:
			return he.Code, ErrorResponse{Error: i18n.T(CodeMethodNotAllowed, nil, lang), Code: CodeMethodNotAllowed}
		}
		if he.Code >= http.StatusBadRequest && he.Code < http.StatusInternalServerError {
			return he.Code, ErrorResponse{Error: i18n.T(CodeRequestInvalid, nil, lang), Code: CodeRequestInvalid}
		}
		return he.Code, ErrorResponse{Error: i18n.T(CodeInternal, nil, lang), Code: CodeInternal}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: i18n.T(CodeInternal, nil, lang), Code: CodeInternal}
}
