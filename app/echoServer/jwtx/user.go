package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
)

// UserIDFromContext reads the id the auth middleware resolved for this request.
func UserIDFromContext(c echo.Context) (int64, error) {
	if id, ok := c.Get("user_id").(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("no user id in context")
}

// UserFromContext reads the password-stripped user loaded by the auth
// middleware.
func UserFromContext(c echo.Context) (*model.User, error) {
	if u, ok := c.Get("user").(*model.User); ok && u != nil {
		return u, nil
	}
	return nil, errors.New("no user in context")
}
