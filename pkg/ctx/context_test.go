package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	appctx "github.com/shashiranjanraj/brewandco/pkg/ctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, 200, env.Status)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("user_id", uint(42))
		assert.Equal(t, uint(42), c.GetUint("user_id"))
		c.Success(nil)
	})(rec, req)
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"name":"John","email":"john@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name  string `json:"name"  validate:"required"`
			Email string `json:"email" validate:"required,email"`
		}
		require.True(t, c.BindJSON(&input))
		assert.Equal(t, "John", input.Name)
		c.Success(nil)
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindJSONValidationFailureIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		assert.False(t, c.BindJSON(&input))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "name")
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name"`
		}
		assert.False(t, c.BindJSON(&input))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.NotFound("Product not found"), http.StatusNotFound},
		{apperr.Conflict("Username or email already exists"), http.StatusConflict},
		{apperr.Authentication("Invalid credentials"), http.StatusUnauthorized},
		{apperr.Authorization("Admin access required"), http.StatusForbidden},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		appctx.Wrap(func(c *appctx.Context) { c.Fail(tc.err) })(rec, req)

		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestFailHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.Internal("Order creation failed", errors.New("UNIQUE constraint failed: secret")))
	})(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Equal(t, "Order creation failed", decode(t, rec).Message)
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			c.NotFound()
			return
		}
		c.Success(id)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/12", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", string(decode(t, rec).Data))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageClamps(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?page=0&limit=500", nil)
	appctx.Wrap(func(c *appctx.Context) {
		p := c.Page(20, 100)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 100, p.Limit)
		c.Success(nil)
	})(rec, req)
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
		c.Success(nil)
	})(rec, req)
}
