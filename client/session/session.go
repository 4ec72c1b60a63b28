// Package session holds the signed-in identity of the client: either a
// customer or an admin, never both, persisted under one store key.
package session

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/brewandco/client/store"
)

// StorageKey is where the identity record lives in the store.
const StorageKey = "session"

type Kind string

const (
	KindCustomer Kind = "customer"
	KindAdmin    Kind = "admin"
)

var (
	ErrNotLoaded  = errors.New("session: not loaded")
	ErrNoCustomer = errors.New("session: no customer signed in")
	ErrEmptyToken = errors.New("session: empty token")
)

// Customer is the storefront profile returned by login and /auth/me.
type Customer struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ProfileComplete reports whether checkout has the contact details it needs.
func (c Customer) ProfileComplete() bool {
	return c.FullName != "" && c.Phone != ""
}

type Admin struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// record is the persisted variant. Exactly one of Customer and Admin is set,
// matching Kind.
type record struct {
	Kind     Kind      `json:"kind"`
	Token    string    `json:"token"`
	Customer *Customer `json:"customer,omitempty"`
	Admin    *Admin    `json:"admin,omitempty"`
}

func (r *record) valid() bool {
	switch {
	case r == nil || r.Token == "":
		return false
	case r.Kind == KindCustomer:
		return r.Customer != nil && r.Admin == nil
	case r.Kind == KindAdmin:
		return r.Admin != nil && r.Customer == nil
	}
	return false
}

type Session struct {
	st store.Store

	mu     sync.RWMutex
	cur    *record
	loaded bool
}

func New(st store.Store) *Session { return &Session{st: st} }

// Load reads the persisted identity. A malformed record is discarded.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r record
	found, err := s.st.Get(StorageKey, &r)
	if err != nil {
		return err
	}
	s.cur = nil
	if found && r.valid() {
		s.cur = &r
	}
	s.loaded = true
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	return nil
}

// SignInCustomer replaces any identity with a customer.
func (s *Session) SignInCustomer(token string, c Customer) error {
	return s.replace(&record{Kind: KindCustomer, Token: token, Customer: &c})
}

// SignInAdmin replaces any identity with an admin.
func (s *Session) SignInAdmin(token string, a Admin) error {
	return s.replace(&record{Kind: KindAdmin, Token: token, Admin: &a})
}

// UpdateCustomer refreshes the held customer profile, keeping the token.
func (s *Session) UpdateCustomer(c Customer) error {
	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()
	if cur == nil || cur.Kind != KindCustomer {
		return ErrNoCustomer
	}
	return s.replace(&record{Kind: KindCustomer, Token: cur.Token, Customer: &c})
}

// Clear signs out.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.st.Delete(StorageKey); err != nil {
		return err
	}
	s.cur = nil
	return nil
}

func (s *Session) replace(r *record) error {
	if r.Token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.st.Set(StorageKey, r); err != nil {
		return err
	}
	s.cur = r
	return nil
}

// Customer returns the held customer, if that is the variant held.
func (s *Session) Customer() (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil || s.cur.Kind != KindCustomer {
		return Customer{}, false
	}
	return *s.cur.Customer, true
}

// Admin returns the held admin, if that is the variant held.
func (s *Session) Admin() (Admin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil || s.cur.Kind != KindAdmin {
		return Admin{}, false
	}
	return *s.cur.Admin, true
}

// Kind is the held variant, empty when signed out.
func (s *Session) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Kind
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// AuthHeader is the Authorization header value, empty when signed out.
func (s *Session) AuthHeader() string {
	if t := s.Token(); t != "" {
		return "Bearer " + t
	}
	return ""
}
