package echoServer

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	authrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/auth"
)

func RegisterMiddlewares(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// LoadUser runs after the JWT middleware: it takes the verified claims,
// resolves the subject to a user row, and attaches the principal to the
// request context with the password stripped. A token whose user no longer
// exists is rejected the same way as a bad token.
func LoadUser(ar authrepo.Repo, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := c.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return response.Fail(c, http.StatusUnauthorized, "Not authorized, token missing")
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return response.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return response.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			}

			u, err := ar.ByID(c.Request().Context(), int64(sub))
			if err != nil {
				if log != nil {
					log.Warn("auth user lookup failed", "sub", int64(sub), "err", err)
				}
				return response.Fail(c, http.StatusUnauthorized, "User not found")
			}
			u.Password = ""

			c.Set("user_id", u.ID)
			c.Set("user", u)
			return next(c)
		}
	}
}
