package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/jwtx"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	paymentsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// History lists the user's payments with aggregate totals
// @Summary      Payment history
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Page size"
// @Param        status  query  string  false  "Filter by status (Pending or Paid)"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /payments/history [get]
func (h *Controller) History(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")

	res, err := h.Svc.History(c.Request().Context(), uid, status, page, limit)
	if err != nil {
		h.Log.Error("payment history failed", "err", err, "user_id", uid)
		return response.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return response.OK(c, http.StatusOK, "Payment history fetched successfully", res)
}

// Dashboard aggregates the user's borrows and payments
// @Summary      Dashboard summary
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /payments/dashboard/summary [get]
func (h *Controller) Dashboard(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	d, err := h.Svc.DashboardSummary(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("dashboard summary failed", "err", err, "user_id", uid)
		return response.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return response.OK(c, http.StatusOK, "Dashboard summary fetched successfully", d)
}

// Complete marks one of the user's pending payments as paid
// @Summary      Complete payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        paymentId  path  int  true  "Payment id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /payments/{paymentId}/complete [post]
func (h *Controller) Complete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("paymentId"), 10, 64)
	if err != nil || id <= 0 {
		return response.Fail(c, http.StatusBadRequest, "Invalid payment id")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	if err := h.Svc.Complete(c.Request().Context(), uid, id); err != nil {
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return response.Fail(c, http.StatusNotFound, "Payment not found")
		case paymentsvc.ErrNotPending:
			return response.Fail(c, http.StatusBadRequest, "Payment is not pending")
		default:
			h.Log.Error("payment complete failed", "err", err, "payment_id", id)
			return response.Fail(c, http.StatusInternalServerError, "Server error")
		}
	}
	return response.OK(c, http.StatusOK, "Payment completed successfully", echo.Map{
		"paymentId": id,
		"status":    "Paid",
	})
}
