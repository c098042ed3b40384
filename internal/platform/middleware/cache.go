package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// CacheControl marks successful responses as publicly cacheable for maxAge.
// Failed requests are sent with no-store.
func CacheControl(maxAge time.Duration) echo.MiddlewareFunc {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderCacheControl, value)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)

			err := next(c)
			if err != nil && !c.Response().Committed {
				h.Set(echo.HeaderCacheControl, "no-store")
			}
			return err
		}
	}
}
