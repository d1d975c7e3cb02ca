// Package handler provides the HTTP handler for the book API.
//
// Every request is normalized into a Request, dispatched to exactly one
// repository operation, and the outcome is shaped into a Response holding the
// status code and the JSON body.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/stevemurr/bookshelf/book"
	"github.com/stevemurr/bookshelf/logger"
	"github.com/stevemurr/bookshelf/middleware"
)

const bookPath = "api/book"

// allowedMethods is sent in the Allow header of 405 responses.
const allowedMethods = "GET, POST, PUT, DELETE"

const (
	msgBookAdded        = "Book added successfully."
	msgBookUpdated      = "Book updated successfully."
	msgBookDeleted      = "Book deleted successfully."
	msgAuthorRequired   = "Author is required and cannot be empty."
	msgTitleRequired    = "Title is required and cannot be empty."
	msgISBNRequired     = "ISBN is required and cannot be empty."
	msgDeleteISBN       = "ISBN is required to delete a book record."
	msgInvalidPayload   = "Invalid payload."
	msgDuplicate        = "This book already exists."
	msgBookNotFound     = "The book you are looking for not found."
	msgNoBooks          = "No book found."
	msgUpdateNotFound   = "Unable to find the book you are trying to update."
	msgDeleteNotFound   = "Unable to find the book you are trying to delete."
	msgEndpointNotFound = "Endpoint not found."
	msgMethodNotAllowed = "Method not allowed."
	msgInternal         = "Internal server error."
)

// Request is a transport-independent inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Response is the outcome of dispatching a Request.
type Response struct {
	Status int
	Body   any
	// Err is the failure behind a 5xx response. It is logged, never sent.
	Err error
}

// Message is the JSON body of confirmations and errors.
type Message struct {
	Message string `json:"message"`
}

func message(status int, msg string) Response {
	return Response{Status: status, Body: Message{Message: msg}}
}

func internalError(err error) Response {
	return Response{Status: http.StatusInternalServerError, Body: Message{Message: msgInternal}, Err: err}
}

// Handler routes book requests to the repository.
type Handler struct {
	repo *book.Repository
}

// New creates a Handler backed by repo.
func New(repo *book.Repository) *Handler {
	return &Handler{repo: repo}
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, ok, err := readBody(r)
	var resp Response
	switch {
	case err != nil:
		logger.Warn("failed to read request body", "error", err, "request_id", middleware.RequestIDFrom(r.Context()))
		resp = message(http.StatusBadRequest, msgInvalidPayload)
	case !ok:
		resp = message(http.StatusBadRequest, msgInvalidPayload)
	default:
		resp = h.Dispatch(Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
	}

	switch {
	case resp.Err != nil:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", resp.Status,
			"error", resp.Err,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
	case resp.Status >= http.StatusBadRequest:
		if m, ok := resp.Body.(Message); ok {
			logger.Debug("request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"status", resp.Status,
				"message", m.Message,
				"request_id", middleware.RequestIDFrom(r.Context()),
			)
		}
	}
	if resp.Status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", allowedMethods)
	}
	writeJSON(w, resp.Status, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// Dispatch maps req to one repository operation. The path is compared with
// leading and trailing slashes removed and the method is case-insensitive.
// ISBNs used for lookup are trimmed, as they are when a book is stored.
func (h *Handler) Dispatch(req Request) Response {
	if strings.Trim(req.Path, "/") != bookPath {
		return message(http.StatusNotFound, msgEndpointNotFound)
	}

	switch strings.ToUpper(req.Method) {
	case http.MethodPost:
		return h.create(req.Body)
	case http.MethodGet:
		if isbn := strings.TrimSpace(req.Query.Get("isbn")); isbn != "" {
			return h.readOne(isbn)
		}
		return h.readAll()
	case http.MethodPut:
		return h.update(req.Body)
	case http.MethodDelete:
		return h.delete(req.Body)
	default:
		return message(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *Handler) create(body []byte) Response {
	p, err := decodePayload(body)
	if err != nil || p == nil {
		return message(http.StatusBadRequest, msgInvalidPayload)
	}

	candidate := book.Book{
		Author:      trimmed(p.Author),
		Title:       trimmed(p.Title),
		ISBN:        trimmed(p.ISBN),
		ReleaseDate: p.ReleaseDate,
	}
	switch {
	case candidate.Author == "":
		return message(http.StatusBadRequest, msgAuthorRequired)
	case candidate.Title == "":
		return message(http.StatusBadRequest, msgTitleRequired)
	case candidate.ISBN == "":
		return message(http.StatusBadRequest, msgISBNRequired)
	}

	if err := h.repo.Create(candidate); err != nil {
		if errors.Is(err, book.ErrDuplicateRecord) {
			return message(http.StatusBadRequest, msgDuplicate)
		}
		return internalError(err)
	}
	return message(http.StatusOK, msgBookAdded)
}

func (h *Handler) readOne(isbn string) Response {
	b, err := h.repo.ReadOne(isbn)
	if err != nil {
		if errors.Is(err, book.ErrRecordNotFound) {
			return message(http.StatusNotFound, msgBookNotFound)
		}
		return internalError(err)
	}
	return Response{Status: http.StatusOK, Body: b}
}

func (h *Handler) readAll() Response {
	books, err := h.repo.ReadAll()
	if err != nil {
		if errors.Is(err, book.ErrRecordNotFound) {
			return message(http.StatusNotFound, msgNoBooks)
		}
		return internalError(err)
	}
	return Response{Status: http.StatusOK, Body: books}
}

// update answers 400, not 404, when the target is missing; delete answers 404.
func (h *Handler) update(body []byte) Response {
	p, err := decodePayload(body)
	if err != nil || p == nil {
		return message(http.StatusBadRequest, msgInvalidPayload)
	}

	patch := book.Patch{
		Author:      nonBlank(p.Author),
		Title:       nonBlank(p.Title),
		ISBN:        nonBlank(p.ISBN),
		ReleaseDate: nonBlank(p.ReleaseDate),
	}
	if err := h.repo.Update(patch); err != nil {
		if errors.Is(err, book.ErrRecordNotFound) {
			return message(http.StatusBadRequest, msgUpdateNotFound)
		}
		return internalError(err)
	}
	return message(http.StatusOK, msgBookUpdated)
}

func (h *Handler) delete(body []byte) Response {
	p, err := decodePayload(body)
	if err != nil {
		return message(http.StatusBadRequest, msgInvalidPayload)
	}
	isbn := ""
	if p != nil {
		isbn = trimmed(p.ISBN)
	}
	if isbn == "" {
		return message(http.StatusBadRequest, msgDeleteISBN)
	}

	if err := h.repo.Delete(isbn); err != nil {
		if errors.Is(err, book.ErrRecordNotFound) {
			return message(http.StatusNotFound, msgDeleteNotFound)
		}
		return internalError(err)
	}
	return message(http.StatusOK, msgBookDeleted)
}
