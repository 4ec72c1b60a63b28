package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"nullable,max=20"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw1234",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "phone")
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.Contains(t, validate.Struct(in{Email: "not-an-email"}), "email")
	assert.Empty(t, validate.Struct(in{Email: "valid@example.com"}))
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1,lte=99"`
	}
	assert.NotEmpty(t, validate.Struct(in{Quantity: 120}))
	assert.NotEmpty(t, validate.Struct(in{Quantity: 0}))
	assert.Empty(t, validate.Struct(in{Quantity: 2}))
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,confirmed,cancelled"`
	}
	assert.NotEmpty(t, validate.Struct(in{Status: "shipped"}))
	assert.Empty(t, validate.Struct(in{Status: "cancelled"}))
}

func TestInRuleFollowedByOtherRule(t *testing.T) {
	type in struct {
		Size string `json:"size" validate:"in=s,m,l,max=1"`
	}
	assert.Empty(t, validate.Struct(in{Size: "m"}))
	assert.NotEmpty(t, validate.Struct(in{Size: "xl"}))
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Rating float64 `json:"rating" validate:"nullable,between=0,5"`
	}
	assert.NotEmpty(t, validate.Struct(in{Rating: 7}))
	assert.Empty(t, validate.Struct(in{Rating: 4.5}))
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Username string `json:"username" validate:"required,alpha_dash"`
	}
	assert.Empty(t, validate.Struct(in{Username: "flat-white_42"}))
	assert.NotEmpty(t, validate.Struct(in{Username: "flat white!"}))
}

func TestPointerFieldsAreOptional(t *testing.T) {
	type patch struct {
		Name  *string  `json:"name"  validate:"nullable,min=1,max=10"`
		Price *float64 `json:"price" validate:"nullable,gt=0"`
	}

	assert.Empty(t, validate.Struct(patch{}), "nil pointers are absent")

	name, price := "Espresso", 2.5
	assert.Empty(t, validate.Struct(patch{Name: &name, Price: &price}))

	zero := 0.0
	errs := validate.Struct(patch{Price: &zero})
	assert.Contains(t, errs, "price")

	long := "Caramel Macchiato"
	assert.Contains(t, validate.Struct(patch{Name: &long}), "name")
}

func TestDiveReportsIndexedFields(t *testing.T) {
	type line struct {
		ProductID uint    `json:"product_id" validate:"required,gt=0"`
		Quantity  int     `json:"quantity"   validate:"required,gt=0"`
		Price     float64 `json:"price"      validate:"required,gt=0"`
	}
	type order struct {
		Items []line `json:"items" validate:"required,min=1,dive"`
	}

	assert.Contains(t, validate.Struct(order{}), "items")

	errs := validate.Struct(order{Items: []line{
		{ProductID: 1, Quantity: 2, Price: 3.5},
		{ProductID: 2, Quantity: -1, Price: 3},
	}})
	assert.Equal(t, []string{"items.1.quantity"}, keys(errs))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
