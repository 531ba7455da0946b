package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/veenayaksirohi/smart-library-borrowing-system/app/echoServer/response"
	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	booksvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/book"
)

type Controller struct {
	Svc booksvc.Service
	Log *slog.Logger
}

// List returns the paginated catalog
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Page size"
// @Param        search  query  string  false  "Match against title or author"
// @Success      200  {object}  map[string]any
// @Router       /books [get]
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	search := c.QueryParam("search")

	books, pg, err := h.Svc.List(c.Request().Context(), search, page, limit)
	if err != nil {
		h.Log.Error("book list failed", "err", err)
		return response.Fail(c, http.StatusInternalServerError, "Server error")
	}
	if books == nil {
		books = []model.Book{}
	}
	return response.OK(c, http.StatusOK, "Books fetched successfully", echo.Map{
		"books":      books,
		"pagination": pg,
	})
}

// Detail returns one book
// @Summary      Book details
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path  int  true  "Book id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /books/{bookId} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || id <= 0 {
		return response.Fail(c, http.StatusBadRequest, "Invalid book id")
	}

	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, "Book not found")
		}
		h.Log.Error("book detail failed", "err", err, "book_id", id)
		return response.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return response.OK(c, http.StatusOK, "Book details fetched successfully", b)
}
