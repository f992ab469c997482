package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookmarket/internal/httpx"
	"bookmarket/internal/identity"
	"bookmarket/internal/kvstore"
)

type HTTPHandler struct {
	service  *Service
	identity *identity.Service
}

func NewHTTPHandler(service *Service, identityService *identity.Service) *HTTPHandler {
	return &HTTPHandler{service: service, identity: identityService}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), Genre(r.URL.Query().Get("genre")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, books, map[string]any{"total": len(books)})
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, b, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	b, err := h.service.Create(r.Context(), in, h.sellerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusCreated, b, nil)
}

// Update handles PATCH /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, b, nil)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := Filters{Genre: Genre(query.Get("genre"))}
	for param, target := range map[string]**float64{
		"min_price": &filters.MinPrice,
		"max_price": &filters.MaxPrice,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid price filter",
				[]httpx.ErrorDetail{{Field: param, Message: param + " must be a number"}})
			return
		}
		*target = &val
	}

	books, err := h.service.Search(r.Context(), query.Get("q"), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, books, map[string]any{"total": len(books)})
}

// Mine handles GET /me/books: the seller's own listings, sold included.
func (h *HTTPHandler) Mine(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBySeller(r.Context(), h.sellerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, books, map[string]any{"total": len(books)})
}

// sellerID resolves the acting profile: bearer token first, then the
// store's session pointer, then the guest profile.
func (h *HTTPHandler) sellerID(r *http.Request) string {
	if id := httpx.ProfileIDFrom(r); id != "" {
		return id
	}
	if p, err := h.identity.Current(r.Context()); err == nil && p != nil {
		return p.ID
	}
	return identity.GuestID
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, 0, len(verr.Details))
		for _, d := range verr.Details {
			details = append(details, httpx.ErrorDetail{Field: d.Field, Message: d.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing input", details)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, kvstore.ErrUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is unavailable", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
