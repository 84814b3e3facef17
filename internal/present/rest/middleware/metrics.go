package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type RequestObserver interface {
	ObserveRequest(method, route, status string)
}

// Observe counts requests by route template.
func Observe(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			observer.ObserveRequest(c.Request().Method, c.Path(), strconv.Itoa(status))
			return err
		}
	}
}
