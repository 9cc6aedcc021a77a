package handler

import "github.com/openshelf/library-api/internal/core/ports"

// errorResponse is the standard error envelope on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the ack envelope returned by mutations.
type messageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// bookInputRequest is one entry of a bulk catalog import.
type bookInputRequest struct {
	Title    string  `json:"title"    validate:"required"`
	Author   string  `json:"author"   validate:"required"`
	ISBN     string  `json:"isbn"     validate:"required"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
}

type updateBookRequest struct {
	Title    string  `json:"title"    validate:"required"`
	Author   string  `json:"author"   validate:"required"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
}

type issueBookRequest struct {
	Username string `json:"username" validate:"required"`
}

// bookResponse is the public catalog view; borrower bookkeeping fields
// are intentionally absent.
type bookResponse struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     string  `json:"isbn"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type listBooksResponse struct {
	Books []bookResponse `json:"books"`
}

type getBookResponse struct {
	Book bookResponse `json:"book"`
}

// listIssuedResponse keeps the response key used by existing clients.
type listIssuedResponse struct {
	Books []bookResponse `json:"books issued are"`
}

func toBookResponse(s ports.BookSummary) bookResponse {
	return bookResponse{
		Title:    s.Title,
		Author:   s.Author,
		ISBN:     s.ISBN,
		Price:    s.Price,
		Quantity: s.Quantity,
	}
}

func toBookResponses(summaries []ports.BookSummary) []bookResponse {
	out := make([]bookResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toBookResponse(s))
	}
	return out
}

func toBookInput(r bookInputRequest) ports.BookInput {
	return ports.BookInput{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Price:    r.Price,
		Quantity: r.Quantity,
	}
}
