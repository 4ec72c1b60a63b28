// Package cart is the shopping cart: line items merged by product id,
// persisted to a store under one key, with decimal-exact totals.
package cart

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/brewandco/client/store"
	"github.com/shashiranjanraj/brewandco/pkg/collection"
	"github.com/shopspring/decimal"
)

// StorageKey is where the cart lives in the store.
const StorageKey = "brewAndCoCart"

// ErrNotLoaded is returned by mutations before Load or after Close.
var ErrNotLoaded = errors.New("cart: not loaded")

// Item is one cart line.
type Item struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
	Image    string  `json:"image,omitempty"`
}

func (i Item) lineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary is the checkout breakdown, rounded to cents.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Cart is safe for concurrent use. Subscribers run after the mutation has
// been persisted, outside the lock.
type Cart struct {
	st      store.Store
	taxRate decimal.Decimal

	mu     sync.Mutex
	items  []Item
	subs   map[int]func([]Item)
	nextID int
	loaded bool
}

// New creates a cart over st. taxRate is a fraction (0.085 for 8.5%).
func New(st store.Store, taxRate float64) *Cart {
	return &Cart{st: st, taxRate: decimal.NewFromFloat(taxRate), subs: map[int]func([]Item){}}
}

// Load reads the persisted cart. A missing key is an empty cart.
func (c *Cart) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var items []Item
	if _, err := c.st.Get(StorageKey, &items); err != nil {
		return err
	}
	c.items = items
	c.loaded = true
	return nil
}

// Close drops subscribers and detaches from the store. The persisted cart
// is left as it is.
func (c *Cart) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.subs = map[int]func([]Item){}
	return nil
}

// OnChange subscribes fn to every mutation and returns an unsubscribe func.
func (c *Cart) OnChange(fn func(items []Item)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Add merges item by id, adding its quantity (1 when unset).
func (c *Cart) Add(item Item) error {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return c.mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity += item.Quantity
				return items
			}
		}
		return append(items, item)
	})
}

// UpdateQuantity sets a line's quantity. q <= 0 removes the line; an
// unknown id is a no-op.
func (c *Cart) UpdateQuantity(id uint, q int) error {
	if q <= 0 {
		return c.Remove(id)
	}
	return c.mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = q
			}
		}
		return items
	})
}

func (c *Cart) Remove(id uint) error {
	return c.mutate(func(items []Item) []Item {
		return collection.Reject(items, func(i Item) bool { return i.ID == id })
	})
}

func (c *Cart) Clear() error {
	return c.mutate(func([]Item) []Item { return nil })
}

// Items returns a copy of the lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// Total is Σ price × quantity.
func (c *Cart) Total() decimal.Decimal {
	return collection.Reduce(c.Items(), decimal.Zero, func(sum decimal.Decimal, i Item) decimal.Decimal {
		return sum.Add(i.lineTotal())
	})
}

// Count is Σ quantity.
func (c *Cart) Count() int {
	return collection.Reduce(c.Items(), 0, func(n int, i Item) int { return n + i.Quantity })
}

func (c *Cart) IsEmpty() bool { return c.Count() == 0 }

func (c *Cart) Summary() Summary {
	subtotal := c.Total().Round(2)
	tax := subtotal.Mul(c.taxRate).Round(2)
	return Summary{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

func (c *Cart) mutate(fn func([]Item) []Item) error {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	next := fn(append([]Item(nil), c.items...))
	if next == nil {
		next = []Item{}
	}
	if err := c.st.Set(StorageKey, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.items = next
	subs := make([]func([]Item), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		snapshot := make([]Item, len(next))
		copy(snapshot, next)
		fn(snapshot)
	}
	return nil
}
