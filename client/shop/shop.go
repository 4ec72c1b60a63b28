// Package shop is the storefront client: the cart, the signed-in identity
// and the API behind one value.
//
//	st, _ := store.OpenFile(".brewandco-state.json", "")
//	s, _ := shop.Open(st, "http://localhost:3000", 0.085)
//	defer s.Close()
//
//	s.Login(ctx, "ana", "secret")
//	s.Cart.Add(cart.Item{ID: 1, Name: "Flat White", Price: 3.5})
//	order, err := s.Checkout(ctx, "no sugar")
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/brewandco/client/api"
	"github.com/shashiranjanraj/brewandco/client/cart"
	"github.com/shashiranjanraj/brewandco/client/session"
	"github.com/shashiranjanraj/brewandco/client/store"
	"github.com/shashiranjanraj/brewandco/pkg/collection"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
)

var (
	ErrNotSignedIn       = errors.New("shop: sign in as a customer first")
	ErrEmptyCart         = errors.New("shop: cart is empty")
	ErrIncompleteProfile = errors.New("shop: full name and phone are required to order")
	ErrSessionExpired    = errors.New("shop: session expired, sign in again")
)

type Shop struct {
	Cart    *cart.Cart
	Session *session.Session
	API     *api.Client

	st store.Store
}

// Open loads the cart and session from st. The API client reads its bearer
// token from the session on every call.
func Open(st store.Store, baseURL string, taxRate float64, opts ...api.Option) (*Shop, error) {
	s := &Shop{
		Cart:    cart.New(st, taxRate),
		Session: session.New(st),
		st:      st,
	}
	if err := s.Cart.Load(); err != nil {
		return nil, fmt.Errorf("shop: load cart: %w", err)
	}
	if err := s.Session.Load(); err != nil {
		return nil, fmt.Errorf("shop: load session: %w", err)
	}
	s.API = api.New(baseURL, append([]api.Option{api.WithToken(s.Session.Token)}, opts...)...)
	return s, nil
}

// Close releases the cart, the session and the store.
func (s *Shop) Close() error {
	return errors.Join(s.Cart.Close(), s.Session.Close(), s.st.Close())
}

func (s *Shop) Register(ctx context.Context, in api.RegisterRequest) (session.Customer, error) {
	res, err := s.API.Register(ctx, in)
	if err != nil {
		return session.Customer{}, err
	}
	return res.User, s.Session.SignInCustomer(res.Token, res.User)
}

func (s *Shop) Login(ctx context.Context, username, password string) (session.Customer, error) {
	res, err := s.API.Login(ctx, username, password)
	if err != nil {
		return session.Customer{}, err
	}
	return res.User, s.Session.SignInCustomer(res.Token, res.User)
}

func (s *Shop) AdminLogin(ctx context.Context, username, password string) (session.Admin, error) {
	res, err := s.API.AdminLogin(ctx, username, password)
	if err != nil {
		return session.Admin{}, err
	}
	return res.Admin, s.Session.SignInAdmin(res.Token, res.Admin)
}

// Logout forgets the identity. The cart is kept.
func (s *Shop) Logout() error { return s.Session.Clear() }

// IsAuthenticated reports a held token with a customer identity.
func (s *Shop) IsAuthenticated() bool {
	_, ok := s.Session.Customer()
	return ok && s.Session.Token() != ""
}

// FetchCurrentUser refreshes the customer profile from the server. A
// refused token signs the session out and yields ErrSessionExpired.
func (s *Shop) FetchCurrentUser(ctx context.Context) (session.Customer, error) {
	if !s.IsAuthenticated() {
		return session.Customer{}, ErrNotSignedIn
	}
	user, err := s.API.Me(ctx)
	if err != nil {
		return session.Customer{}, s.rejected(err)
	}
	return user, s.Session.UpdateCustomer(user)
}

func (s *Shop) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (session.Customer, error) {
	if !s.IsAuthenticated() {
		return session.Customer{}, ErrNotSignedIn
	}
	user, err := s.API.UpdateProfile(ctx, in)
	if err != nil {
		return session.Customer{}, s.rejected(err)
	}
	return user, s.Session.UpdateCustomer(user)
}

// Checkout submits the cart as an order and empties it on success. Each
// submit carries a fresh idempotency key.
func (s *Shop) Checkout(ctx context.Context, notes string) (api.OrderCreated, error) {
	customer, ok := s.Session.Customer()
	if !ok || s.Session.Token() == "" {
		return api.OrderCreated{}, ErrNotSignedIn
	}
	if s.Cart.IsEmpty() {
		return api.OrderCreated{}, ErrEmptyCart
	}
	if !customer.ProfileComplete() {
		return api.OrderCreated{}, ErrIncompleteProfile
	}

	req := api.OrderRequest{
		Items: collection.Map(s.Cart.Items(), func(i cart.Item) api.OrderLine {
			return api.OrderLine{ProductID: i.ID, Name: i.Name, Price: i.Price, Quantity: i.Quantity}
		}),
		TotalAmount: s.Cart.Total().Round(2).InexactFloat64(),
		Notes:       notes,
	}

	created, err := s.API.CreateOrder(ctx, req, uuid.NewString())
	if err != nil {
		return api.OrderCreated{}, s.rejected(err)
	}
	if err := s.Cart.Clear(); err != nil {
		logger.Warn("shop: order placed but cart not cleared", "order_id", created.OrderID, "error", err)
	}
	return created, nil
}

func (s *Shop) Orders(ctx context.Context) ([]api.Order, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	orders, err := s.API.Orders(ctx)
	if err != nil {
		return nil, s.rejected(err)
	}
	return orders, nil
}

func (s *Shop) rejected(err error) error {
	if !api.IsRejected(err) {
		return err
	}
	if cerr := s.Session.Clear(); cerr != nil {
		logger.Warn("shop: clear rejected session", "error", cerr)
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}
