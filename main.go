// Package main library rental API.
//
// @title           Library Rental API
// @version         1.0
// @description     Library rental backend (auth, catalog, borrowing, payments).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer"
	authctrl "github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/auth"
	bookctrl "github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/book"
	borrowctrl "github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/borrow"
	paymentctrl "github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/controller/payment"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/validation"
	"github.com/veenayaksirohi/smart-library-borrowing-system/config"
	authrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/auth"
	bookrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/book"
	borrowrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/borrow"
	paymentrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/payment"
	authsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/auth"
	booksvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/book"
	borrowsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/borrow"
	paymentsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/payment"
	"github.com/veenayaksirohi/smart-library-borrowing-system/util/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	rr := borrowrepo.New(db)
	pr := paymentrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br)
	rs := borrowsvc.New(db, rr, br, pr)
	ps := paymentsvc.New(pr, ar)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		Borrow:  borrowC,
		Payment: paymentC,

		Users:     ar,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
