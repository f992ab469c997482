package identity

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarket/internal/kvstore"
)

const testSecret = "test-secret"

func newHandler(t *testing.T) *HTTPHandler {
	t.Helper()
	svc := NewService(NewKVRepo(kvstore.NewMemory()))
	return NewHTTPHandler(svc, testSecret)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	handler(w, r)
	return w
}

func TestSignupHandler(t *testing.T) {
	h := newHandler(t)

	t.Run("created with token", func(t *testing.T) {
		w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
			"email":     "ada@example.com",
			"full_name": "Ada Lovelace",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				Profile Profile `json:"profile"`
				Token   string  `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ada@example.com", resp.Data.Profile.Email)
		require.NotEmpty(t, resp.Data.Token)

		claims, err := ParseToken(testSecret, resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.Data.Profile.ID, claims.Sub)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
			"email": "ADA@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_EMAIL")
	})

	t.Run("invalid email", func(t *testing.T) {
		w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
			"email": "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), `"field":"email"`)
	})
}

func TestValidateRequestNamesEachField(t *testing.T) {
	in := struct {
		Email    string `json:"email" validate:"required,email"`
		FullName string `json:"full_name" validate:"required"`
	}{}

	details := validateRequest(in)
	require.Len(t, details, 2)

	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "full_name")
}

func TestLoginHandler(t *testing.T) {
	h := newHandler(t)

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, h.Login, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "pw",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Please sign up")
	})

	t.Run("guest account, any password", func(t *testing.T) {
		w := postJSON(t, h.Login, "/auth/login", map[string]string{
			"email":    "guest@asu.edu",
			"password": "whatever",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), GuestID)
	})
}

func TestLogoutAndMeHandlers(t *testing.T) {
	h := newHandler(t)

	w := postJSON(t, h.Signup, "/auth/signup", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	me := httptest.NewRecorder()
	h.Me(me, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "ada@example.com")

	out := httptest.NewRecorder()
	h.Logout(out, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusOK, out.Code)

	meAfter := httptest.NewRecorder()
	h.Me(meAfter, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, meAfter.Code)

	var resp struct {
		Data *Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(meAfter.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data, "no session means null, callers pick guest themselves")
}
