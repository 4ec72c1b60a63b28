package kernel_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/internal/kernel"
	"github.com/shashiranjanraj/brewandco/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func newKernel(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := testkit.DB(t)
	return kernel.NewHTTPKernel(db, nil).Handler(), db
}

func register(t *testing.T, h http.Handler, username, email, password string) *testkit.Response {
	t.Helper()
	return testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body:   map[string]string{"username": username, "email": email, "password": password},
	})
}

func login(t *testing.T, h http.Handler, path, username, password string) *testkit.Response {
	t.Helper()
	return testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   map[string]string{"username": username, "password": password},
	})
}

func TestRegisterLoginScenario(t *testing.T) {
	h, _ := newKernel(t)

	res := register(t, h, "alice", "alice@x.com", "pw123")
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	assert.True(t, res.Envelope.Success)
	var registered authData
	res.Data(t, &registered)
	assert.NotEmpty(t, registered.Token)

	res = register(t, h, "alice", "alice@x.com", "pw123")
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.False(t, res.Envelope.Success)

	res = login(t, h, "/api/auth/login", "alice", "wrongpw")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Empty(t, res.Envelope.Data)

	res = login(t, h, "/api/auth/login", "alice", "pw123")
	require.Equal(t, http.StatusOK, res.Code)
	var loggedIn authData
	res.Data(t, &loggedIn)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotContains(t, string(res.Body), "password")
}

func TestOrderScenario(t *testing.T) {
	h, _ := newKernel(t)

	res := register(t, h, "alice", "alice@x.com", "pw123")
	require.Equal(t, http.StatusOK, res.Code)
	var a authData
	res.Data(t, &a)

	res = testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   "/api/orders",
		Token:  a.Token,
		Body: map[string]any{
			"items":        []map[string]any{{"id": 1, "name": "Flat White", "price": 3.5, "quantity": 2}},
			"total_amount": 7.00,
		},
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var created struct {
		OrderID uint `json:"orderId"`
	}
	res.Data(t, &created)
	require.NotZero(t, created.OrderID)

	res = testkit.Get(t, h, "/api/user/orders", a.Token)
	require.Equal(t, http.StatusOK, res.Code)
	var orders []models.Order
	res.Data(t, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, created.OrderID, orders[0].ID)
	assert.InDelta(t, 7.00, orders[0].TotalAmount, 0.001)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Flat White", orders[0].Items[0].ProductName)

	res = testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   "/api/orders",
		Token:  a.Token,
		Body:   map[string]any{"items": []map[string]any{}},
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.NotEmpty(t, res.Envelope.Errors)
}

func TestAdminGate(t *testing.T) {
	h, db := newKernel(t)

	_, err := services.NewAuthService(db).CreateAdmin(context.Background(), "manager", "manager@x.com", "manager-pass")
	require.NoError(t, err)

	res := register(t, h, "adminfan", "fan@x.com", "pw123")
	require.Equal(t, http.StatusOK, res.Code)
	var customer authData
	res.Data(t, &customer)

	res = testkit.Get(t, h, "/api/admin/stats", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Empty(t, res.Envelope.Data)

	res = testkit.Get(t, h, "/api/admin/stats", "not-a-token")
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = testkit.Get(t, h, "/api/admin/stats", customer.Token)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Empty(t, res.Envelope.Data)

	res = login(t, h, "/api/admin/login", "manager", "manager-pass")
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	var adminAuth struct {
		Token string `json:"token"`
	}
	res.Data(t, &adminAuth)

	res = testkit.Get(t, h, "/api/admin/stats", adminAuth.Token)
	assert.Equal(t, http.StatusOK, res.Code)

	res = testkit.Get(t, h, "/api/admin/verify", adminAuth.Token)
	require.Equal(t, http.StatusOK, res.Code)
	var verified struct {
		Admin services.AdminIdentity `json:"admin"`
	}
	res.Data(t, &verified)
	assert.Equal(t, "manager", verified.Admin.Username)
	assert.Equal(t, "admin", verified.Admin.Role)

	// An admin identity cannot act on customer routes.
	res = testkit.Get(t, h, "/api/user/orders", adminAuth.Token)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestEveryAdminRouteIsGated(t *testing.T) {
	db := testkit.DB(t)
	k := kernel.NewHTTPKernel(db, nil)
	h := k.Handler()

	res := register(t, h, "regular", "regular@x.com", "pw123")
	require.Equal(t, http.StatusOK, res.Code)
	var customer authData
	res.Data(t, &customer)

	gated := 0
	for _, route := range k.Router().Routes() {
		if !strings.HasPrefix(route.Path, "/api/admin/") || route.Name == "admin.login" {
			continue
		}
		gated++
		path := strings.ReplaceAll(route.Path, "{id}", "1")

		res := testkit.Do(t, h, testkit.Request{Method: route.Method, Path: path})
		assert.Equal(t, http.StatusUnauthorized, res.Code, "%s %s without token", route.Method, path)
		assert.False(t, res.Envelope.Success)

		res = testkit.Do(t, h, testkit.Request{Method: route.Method, Path: path, Token: customer.Token})
		assert.Equal(t, http.StatusForbidden, res.Code, "%s %s with customer token", route.Method, path)
		assert.Empty(t, res.Envelope.Data)
	}
	assert.GreaterOrEqual(t, gated, 11)
}

func TestAdminProductLifecycle(t *testing.T) {
	h, db := newKernel(t)
	_, err := services.NewAuthService(db).CreateAdmin(context.Background(), "manager", "manager@x.com", "manager-pass")
	require.NoError(t, err)

	res := login(t, h, "/api/admin/login", "manager", "manager-pass")
	require.Equal(t, http.StatusOK, res.Code)
	var adminAuth struct {
		Token string `json:"token"`
	}
	res.Data(t, &adminAuth)

	res = testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   "/api/admin/products",
		Token:  adminAuth.Token,
		Body:   map[string]any{"name": "Cortado", "price": 3.25, "category": "coffee", "stock": 10},
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var product models.Product
	res.Data(t, &product)
	assert.True(t, product.IsAvailable)

	res = testkit.Do(t, h, testkit.Request{
		Method: http.MethodPut,
		Path:   "/api/admin/products/" + itoa(product.ID),
		Token:  adminAuth.Token,
		Body:   map[string]any{"price": 3.75},
	})
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	var updated models.Product
	res.Data(t, &updated)
	assert.InDelta(t, 3.75, updated.Price, 0.001)
	assert.Equal(t, "Cortado", updated.Name)
	assert.Equal(t, 10, updated.Stock)

	res = testkit.Get(t, h, "/api/products", "")
	require.Equal(t, http.StatusOK, res.Code)
	var menu []models.Product
	res.Data(t, &menu)
	assert.Len(t, menu, 1)

	res = testkit.Do(t, h, testkit.Request{Method: http.MethodDelete, Path: "/api/admin/products/" + itoa(product.ID), Token: adminAuth.Token})
	assert.Equal(t, http.StatusOK, res.Code)

	res = testkit.Get(t, h, "/api/products/"+itoa(product.ID), "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestInfrastructureRoutes(t *testing.T) {
	h, _ := newKernel(t)

	res := testkit.Get(t, h, "/api/health", "")
	require.Equal(t, http.StatusOK, res.Code)
	var health map[string]any
	res.Data(t, &health)
	assert.Equal(t, "connected", health["database"])
	assert.Equal(t, "Brew & Co API", health["service"])

	res = testkit.Get(t, h, "/", "")
	assert.Equal(t, http.StatusOK, res.Code)

	res = testkit.Get(t, h, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.False(t, res.Envelope.Success)
	assert.Equal(t, http.StatusNotFound, res.Envelope.Status)

	res = testkit.Do(t, h, testkit.Request{Method: http.MethodDelete, Path: "/api/auth/login"})
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Envelope.Status)

	res = testkit.Get(t, h, "/metrics", "")
	assert.Equal(t, http.StatusOK, res.Code)

	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestGraphQLCatalog(t *testing.T) {
	h, db := newKernel(t)
	require.NoError(t, db.Create(&models.Product{Name: "Mocha", Price: 4.5, Category: "coffee", IsAvailable: true}).Error)

	res := testkit.Do(t, h, testkit.Request{
		Method: http.MethodPost,
		Path:   "/api/graphql",
		Body:   map[string]any{"query": "{ products { name price } }"},
	})
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	assert.Contains(t, string(res.Body), "Mocha")
}

func TestRoutesAreNamed(t *testing.T) {
	db := testkit.DB(t)
	k := kernel.NewHTTPKernel(db, nil)

	path, ok := k.Router().Path("orders.show")
	require.True(t, ok)
	assert.Equal(t, "/api/orders/{id}", path)

	url, err := k.Router().URL("admin.orders.status", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/orders/9/status", url)
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
