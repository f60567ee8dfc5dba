// Package handler contains the HTTP layer: request binding,
// delegation to the services and mapping of typed service errors
// onto status codes.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fazilraphi/blig-blogs/internal/middleware"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// dbTimeout bounds every database-touching request. Requests that
// push bytes to the media store get the longer uploadTimeout.
const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 30 * time.Second
)

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// uploadContext is reqContext with the media store budget.
func uploadContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), uploadTimeout)
}

// actorID returns the authenticated user id stored by the JWT
// middleware.
func actorID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, echo.ErrUnauthorized
	}
	return id, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// readFormFile reads the multipart "file" field, at most limit+1
// bytes so the services can reject oversized payloads themselves.
func readFormFile(c echo.Context, limit int64) (name string, data []byte, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

// writeErr maps a service error kind onto an HTTP response. Every
// service failure passes through here so the mapping lives in one
// place.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "media store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
