package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-api/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.CatalogService
}

func NewBookHandler(service ports.CatalogService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books.
//
// @Summary      List all books
// @Tags         books
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  listBooksResponse
// @Failure      401  {object}  errorResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	summaries, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listBooksResponse{Books: toBookResponses(summaries)})
}

// Get handles GET /books/:isbn.
//
// @Summary      Get a book by ISBN
// @Tags         books
// @Produce      json
// @Security     TokenAuth
// @Param        isbn  path      string  true  "Book ISBN"
// @Success      200   {object}  getBookResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{isbn} [get]
func (h *BookHandler) Get(c echo.Context) error {
	summary, err := h.service.Get(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, getBookResponse{Book: toBookResponse(*summary)})
}

// Add handles POST /books — bulk insert, admin only. The whole batch is
// validated before anything is written.
//
// @Summary      Add books to the catalog
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate imports"
// @Param        body             body      []bookInputRequest  true   "Books to add"
// @Success      201              {object}  messageResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Add(c echo.Context) error {
	var reqs []bookInputRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "payload must be a list of books")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "book list cannot be empty")
	}

	inputs := make([]ports.BookInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("book[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toBookInput(req))
	}

	count, err := h.service.Add(c.Request().Context(), inputs, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}
	if count == 0 {
		return c.JSON(http.StatusOK, messageResponse{Message: "books already added"})
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "new books added", Count: count})
}

// Update handles PUT /books/:isbn, admin only.
//
// @Summary      Update book details
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        isbn  path      string             true  "Book ISBN"
// @Param        body  body      updateBookRequest  true  "Fields to overwrite"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books/{isbn} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err := h.service.Update(c.Request().Context(), c.Param("isbn"), ports.BookUpdate{
		Title:    req.Title,
		Author:   req.Author,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "book details updated"})
}

// Delete handles DELETE /books/:isbn, admin only.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     TokenAuth
// @Param        isbn  path      string  true  "Book ISBN"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{isbn} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("isbn")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "book deleted"})
}
