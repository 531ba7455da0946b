package echoServer

import (
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/auth"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/book"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/borrow"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/payment"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	authrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/auth"
)

type C struct {
	Auth    *auth.Controller
	Book    *book.Controller
	Borrow  *borrow.Controller
	Payment *payment.Controller

	Users     authrepo.Repo
	JWTSecret string
	Log       *slog.Logger
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/auth/signup", c.Auth.Signup)
	e.POST("/auth/login", c.Auth.Login)

	// Everything else needs a bearer token resolved to a user.
	authd := e.Group("")
	authd.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return response.Fail(ctx, http.StatusUnauthorized, "Invalid or expired token")
		},
	}))
	authd.Use(LoadUser(c.Users, c.Log))

	authd.GET("/auth/profile", c.Auth.Profile)

	authd.GET("/books", c.Book.List)
	authd.GET("/books/:bookId", c.Book.Detail)

	authd.POST("/borrow/validate", c.Borrow.Validate)
	authd.POST("/borrow/calculate", c.Borrow.Calculate)
	authd.POST("/borrow", c.Borrow.Create)
	authd.GET("/borrow/active", c.Borrow.Active)
	authd.GET("/borrow/history", c.Borrow.History)
	authd.GET("/borrow/:borrowId/summary", c.Borrow.Summary)
	authd.POST("/borrow/:borrowId/submit", c.Borrow.Return)

	authd.GET("/payments/history", c.Payment.History)
	authd.GET("/payments/dashboard/summary", c.Payment.Dashboard)
	authd.POST("/payments/:paymentId/complete", c.Payment.Complete)
}
