package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-api/internal/core/ports"
)

// CirculationHandler handles HTTP requests for the issue/return workflow.
type CirculationHandler struct {
	service ports.CirculationService
}

func NewCirculationHandler(service ports.CirculationService) *CirculationHandler {
	return &CirculationHandler{service: service}
}

// Issue handles POST /books/issue/:isbn, admin only.
//
// @Summary      Issue a copy to a borrower
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        isbn  path      string            true  "Book ISBN"
// @Param        body  body      issueBookRequest  true  "Borrower"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /books/issue/{isbn} [post]
func (h *CirculationHandler) Issue(c echo.Context) error {
	var req issueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.Issue(c.Request().Context(), c.Param("isbn"), req.Username); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "book issued successfully"})
}

// Return handles POST /books/return/:isbn, admin only.
//
// @Summary      Return a copy
// @Tags         circulation
// @Produce      json
// @Security     TokenAuth
// @Param        isbn  path      string  true  "Book ISBN"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /books/return/{isbn} [post]
func (h *CirculationHandler) Return(c echo.Context) error {
	if err := h.service.Return(c.Request().Context(), c.Param("isbn")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "book returned successfully"})
}

// ListIssued handles GET /books/issued.
//
// @Summary      List books with outstanding copies
// @Tags         circulation
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  listIssuedResponse
// @Failure      401  {object}  errorResponse
// @Router       /books/issued [get]
func (h *CirculationHandler) ListIssued(c echo.Context) error {
	summaries, err := h.service.ListIssued(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listIssuedResponse{Books: toBookResponses(summaries)})
}
