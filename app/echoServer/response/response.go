package response

import "github.com/labstack/echo/v4"

// OK writes the success envelope every endpoint uses.
func OK(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, echo.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Fail writes the failure envelope. Internal details never reach here;
// callers log them and pass a generic message.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"success": false,
		"message": message,
	})
}
