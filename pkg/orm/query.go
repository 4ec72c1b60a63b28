// Package orm is a thin query builder over GORM with cache-aside reads and
// page/limit pagination.
package orm

import (
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/cache"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query on the process-wide connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query on an explicit connection (repositories, tests).
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Cache serves dest from the cache under key, falling back to the query
// and populating the cache for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(key, dest, ttl)
	return nil
}

// Page is a validated page/limit request.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page >= 1 and 1 <= limit <= max. A non-positive limit
// becomes 20.
func NewPage(page, limit, max int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if max > 0 && limit > max {
		limit = max
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Pagination is the meta block returned next to a page of items.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Paginate counts the query then loads one page into dest.
func (q *Query) Paginate(p Page, dest interface{}) (Pagination, error) {
	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.db.Offset(p.Offset()).Limit(p.Limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return NewPagination(total, p), nil
}

// NewPagination computes the page count for total rows.
func NewPagination(total int64, p Page) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
