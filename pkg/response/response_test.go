package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnvelopeShape(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, "Order placed successfully", map[string]int{"orderId": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 201, body["status"])
	assert.Equal(t, map[string]any{"orderId": float64(3)}, body["data"])
	assert.NotContains(t, body, "errors")
}

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("The given data was invalid.", map[string]string{"items": "required"}), 400, "The given data was invalid."},
		{apperr.Authentication("Invalid credentials"), 401, "Invalid credentials"},
		{apperr.Authorization("Admin access required"), 403, "Admin access required"},
		{apperr.NotFound("Order not found"), 404, "Order not found"},
		{apperr.Conflict("Username or email already exists"), 409, "Username or email already exists"},
		{apperr.Internal("order creation failed", errors.New("disk full")), 500, "order creation failed"},
		{errors.New("raw driver error"), 500, "Internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		assert.Equal(t, tc.status, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tc.message, body["message"])
		assert.NotContains(t, rec.Body.String(), "disk full")
		assert.NotContains(t, rec.Body.String(), "raw driver error")
	}

	rec := httptest.NewRecorder()
	response.Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), cases[0].err)
	assert.Equal(t, map[string]any{"items": "required"}, decode(t, rec)["errors"])
}
