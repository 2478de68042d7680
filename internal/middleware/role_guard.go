package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleを確認するガード。

func AdminRoleGuard() echo.MiddlewareFunc {
	return requireRole("ADMIN")
}

func SellerRoleGuard() echo.MiddlewareFunc {
	return requireRole("SELLER")
}

func requireRole(want string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != want {
				return c.JSON(http.StatusForbidden, errorJSON(want+" only"))
			}

			return next(c)
		}
	}
}
