package presenter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"
)

const (
	HeaderETag        = "ETag"
	HeaderIfNoneMatch = "If-None-Match"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

// Tagged answers with an xxh3 ETag of the body and honors If-None-Match.
func Tagged(c echo.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return InternalError(c, err)
	}

	etag := `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
	c.Response().Header().Set(HeaderETag, etag)
	if c.Request().Header.Get(HeaderIfNoneMatch) == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func BadRequest(c echo.Context, err error) error {
	slog.DebugContext(c.Request().Context(), "bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// Unauthorized never carries more than the rejection reason.
func Unauthorized(c echo.Context, reason string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "cannot verify identity", Reason: reason})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func TooManyRequests(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
}

func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(
		c.Request().Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
