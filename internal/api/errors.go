package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// errorDetail is the body of every error response.
type errorDetail struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	APIOwner string `json:"api_owner"`
	APIDev   string `json:"api_dev"`
}

type errorResponse struct {
	Detail errorDetail `json:"detail"`
}

func notFound(message string) error {
	return echo.NewHTTPError(http.StatusNotFound, message)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

func unprocessable(message string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, message)
}

// bindQuery binds and validates query parameters. Malformed or invalid
// values are reported as 422.
func bindQuery(c echo.Context, dst any) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return validate(c, dst)
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return unprocessable("Invalid query: " + messageOf(he))
		}
		return unprocessable("Invalid query: " + err.Error())
	}
	return nil
}

func validate(c echo.Context, dst any) error {
	if err := c.Validate(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return unprocessable("Invalid value for " + verrs[0].Field())
		}
		return unprocessable(err.Error())
	}
	return nil
}

// handleError renders every error in the public error envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = messageOf(he)
	} else {
		s.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Unhandled error")
	}

	body := errorResponse{Detail: errorDetail{
		Status:   "error",
		Message:  message,
		APIOwner: APIOwner,
		APIDev:   APIDev,
	}}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func messageOf(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	default:
		return http.StatusText(he.Code)
	}
}
