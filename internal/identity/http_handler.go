package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bookmarket/internal/httpx"
	"bookmarket/internal/kvstore"
)

const tokenTTL = 24 * time.Hour

var validate = validator.New()

type HTTPHandler struct {
	service *Service
	secret  string
}

func NewHTTPHandler(service *Service, secret string) *HTTPHandler {
	return &HTTPHandler{service: service, secret: secret}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type authResponse struct {
	Profile Profile `json:"profile"`
	Token   string  `json:"token"`
}

// Signup handles POST /auth/signup
func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signup input", details)
		return
	}

	p, err := h.service.Signup(r.Context(), req.Email, req.FullName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeAuth(w, r, http.StatusCreated, p)
}

// Login handles POST /auth/login. The password travels with the request
// but is not checked; any password unlocks a known account.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid login input", details)
		return
	}

	p, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeAuth(w, r, http.StatusOK, p)
}

// Logout handles POST /auth/logout
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

// Me handles GET /me. Data is null when nobody is logged in; clients fall
// back to the guest profile themselves.
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	if id := httpx.ProfileIDFrom(r); id != "" {
		p, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.JSONSuccess(w, r, http.StatusOK, p, nil)
		return
	}

	p, err := h.service.Current(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, http.StatusOK, p, nil)
}

func (h *HTTPHandler) writeAuth(w http.ResponseWriter, r *http.Request, status int, p Profile) {
	token, err := GenerateToken(h.secret, p, tokenTTL)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, status, authResponse{Profile: p, Token: token}, nil)
}

func validateRequest(req any) []httpx.ErrorDetail {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []httpx.ErrorDetail{{Field: "request", Message: "invalid request"}}
	}
	details := make([]httpx.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := requestFieldName(fe.Field())
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		}
		details = append(details, httpx.ErrorDetail{Field: field, Message: field + " " + msg})
	}
	return details
}

// requestFieldName maps a Go struct field name to its wire name.
func requestFieldName(field string) string {
	switch field {
	case "FullName":
		return "full_name"
	case "AvatarURL":
		return "avatar_url"
	default:
		return strings.ToLower(field)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found. Please sign up.", nil)
	case errors.Is(err, ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_EMAIL", "User with this email already exists", nil)
	case errors.Is(err, kvstore.ErrUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is unavailable", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
