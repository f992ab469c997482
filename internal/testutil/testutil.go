package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookmarket/internal/identity"
	"bookmarket/internal/listing"
)

// TestProfile is a fixture seller for tests.
var TestProfile = identity.Profile{
	ID:        "11111111-1111-1111-1111-111111111111",
	Email:     "seller@example.com",
	FullName:  "Test Seller",
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestBook is a fixture listing for tests.
var TestBook = listing.Book{
	ID:           "22222222-2222-2222-2222-222222222222",
	Title:        "Linear Algebra and Its Applications",
	CourseCode:   "MAT 342",
	Price:        60,
	Condition:    listing.ConditionGood,
	MaterialType: listing.MaterialTextbook,
	Genre:        listing.GenreSTEM,
	Description:  "Light wear on the cover",
	SellerID:     TestProfile.ID,
	CreatedAt:    time.Now(),
	UpdatedAt:    time.Now(),
}

// NewRequest creates an HTTP request with an optional JSON body.
func NewRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	raw, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// RecordResponse holds a decoded test response.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes a recorded response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	raw, _ := io.ReadAll(result.Body)
	var body map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   body,
	}
}
