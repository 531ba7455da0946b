package borrow

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/jwtx"
	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	borrowsvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/borrow"
)

type Controller struct {
	Svc borrowsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// failFor maps borrow service codes to the error envelope.
func (h *Controller) failFor(c echo.Context, err error) error {
	switch borrowsvc.Code(err) {
	case borrowsvc.ErrBookNotFound:
		return response.Fail(c, http.StatusNotFound, "Book not found")
	case borrowsvc.ErrBookUnavailable:
		return response.Fail(c, http.StatusBadRequest, "Book is not available")
	case borrowsvc.ErrAlreadyBorrow:
		return response.Fail(c, http.StatusBadRequest, "You already have an active borrow")
	case borrowsvc.ErrInvalidDays:
		return response.Fail(c, http.StatusBadRequest, "daysToKeep must be between 1 and 14")
	case borrowsvc.ErrNotFound:
		return response.Fail(c, http.StatusNotFound, "Borrow not found")
	case borrowsvc.ErrNotActive:
		return response.Fail(c, http.StatusBadRequest, "Borrow is not active")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error("borrow op failed", "err", err, "req_id", rid, "path", c.Path())
		return response.Fail(c, http.StatusInternalServerError, "Server error")
	}
}

// Validate checks borrow rules for a book
// @Summary      Validate borrow
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.ValidateBorrowReq  true  "Validation payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /borrow/validate [post]
func (h *Controller) Validate(c echo.Context) error {
	var req model.ValidateBorrowReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.V.Struct(req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "bookId is required")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	rules, err := h.Svc.Validate(c.Request().Context(), uid, req.BookID)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusOK, "Borrow validation successful", echo.Map{
		"isValid": true,
		"rules":   rules,
	})
}

// Calculate prices a borrow before committing
// @Summary      Calculate cost
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.CalculateCostReq  true  "Calculation payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /borrow/calculate [post]
func (h *Controller) Calculate(c echo.Context) error {
	var req model.CalculateCostReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.V.Struct(req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "bookId and daysToKeep are required")
	}

	breakdown, err := h.Svc.Calculate(c.Request().Context(), req.BookID, req.DaysToKeep)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusOK, "Cost calculated successfully", echo.Map{
		"bookId":        req.BookID,
		"daysToKeep":    req.DaysToKeep,
		"totalCost":     breakdown.Total,
		"costBreakdown": breakdown,
	})
}

// Create borrows a book
// @Summary      Borrow a book
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.BorrowReq  true  "Borrow payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /borrow [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.BorrowReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.V.Struct(req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "bookId and daysToKeep are required")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	b, err := h.Svc.Borrow(c.Request().Context(), uid, req.BookID, req.DaysToKeep)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusCreated, "Book borrowed successfully", b)
}

// Active lists the user's active borrows
// @Summary      Active borrows
// @Tags         borrow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /borrow/active [get]
func (h *Controller) Active(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	rows, err := h.Svc.Active(c.Request().Context(), uid)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusOK, "Active borrows fetched successfully", echo.Map{
		"activeBorrows": rows,
		"totalActive":   len(rows),
	})
}

// History lists all of the user's borrows
// @Summary      Borrow history
// @Tags         borrow
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  map[string]any
// @Router       /borrow/history [get]
func (h *Controller) History(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rows, total, err := h.Svc.History(c.Request().Context(), uid, limit, (page-1)*limit)
	if err != nil {
		return h.failFor(c, err)
	}
	if rows == nil {
		rows = []borrowsvc.HistoryRow{}
	}
	return response.OK(c, http.StatusOK, "Borrow history fetched successfully", echo.Map{
		"borrows":    rows,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// Summary reports one borrow, with overdue recomputed live while active
// @Summary      Borrow summary
// @Tags         borrow
// @Produce      json
// @Security     BearerAuth
// @Param        borrowId  path  int  true  "Borrow id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /borrow/{borrowId}/summary [get]
func (h *Controller) Summary(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("borrowId"), 10, 64)
	if err != nil || id <= 0 {
		return response.Fail(c, http.StatusBadRequest, "Invalid borrow id")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	sum, err := h.Svc.Summary(c.Request().Context(), uid, id)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusOK, "Borrow summary fetched successfully", sum)
}

// Return settles an active borrow
// @Summary      Return a book
// @Tags         borrow
// @Produce      json
// @Security     BearerAuth
// @Param        borrowId  path  int  true  "Borrow id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /borrow/{borrowId}/submit [post]
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("borrowId"), 10, 64)
	if err != nil || id <= 0 {
		return response.Fail(c, http.StatusBadRequest, "Invalid borrow id")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}

	res, err := h.Svc.Return(c.Request().Context(), uid, id)
	if err != nil {
		return h.failFor(c, err)
	}
	return response.OK(c, http.StatusOK, "Book returned successfully", res)
}
