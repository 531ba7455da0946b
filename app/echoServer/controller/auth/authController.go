package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/jwtx"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	authsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Signup registers a new user
// @Summary      Sign up
// @Description  Register a new user, returns the user stub and a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.SignupReq  true  "Signup payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /auth/signup [post]
func (ct *Controller) Signup(c echo.Context) error {
	var req model.SignupReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return response.Fail(c, http.StatusBadRequest, "name, email and password are required")
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrEmailTaken:
			return response.Fail(c, http.StatusBadRequest, "Email already registered")
		case authsvc.ErrBadInput:
			return response.Fail(c, http.StatusBadRequest, "Invalid signup data")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("signup failed", "err", err, "req_id", rid, "path", c.Path())
			return response.Fail(c, http.StatusInternalServerError, "Server error")
		}
	}

	return response.OK(c, http.StatusCreated, "User registered successfully", echo.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"token": token,
	})
}

// Login authenticates a user
// @Summary      Login
// @Description  Login with email + password, returns a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return response.Fail(c, http.StatusBadRequest, "email and password are required")
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds:
			return response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		case authsvc.ErrBadInput:
			return response.Fail(c, http.StatusBadRequest, "Invalid login data")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return response.Fail(c, http.StatusInternalServerError, "Server error")
		}
	}

	return response.OK(c, http.StatusOK, "Login successful", echo.Map{
		"id":    u.ID,
		"email": u.Email,
		"token": token,
	})
}

// Profile returns the authenticated user
// @Summary      Profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/profile [get]
func (ct *Controller) Profile(c echo.Context) error {
	u, err := jwtx.UserFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}
	return response.OK(c, http.StatusOK, "Profile fetched successfully", u)
}
