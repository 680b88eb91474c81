package store

import (
	"fmt"
)

type Query struct {
	MetaKey   string
	MetaValue string
	HasMeta   bool
	Status    string
	Limit     int
	Offset    int
}

type Option func(*Query)

func NewQuery(opts ...Option) *Query {
	q := &Query{Status: StatusAny}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// WithMeta keeps records having a field key equal to value.
func WithMeta(key string, value interface{}) Option {
	return func(q *Query) {
		q.MetaKey = key
		q.MetaValue = fmt.Sprint(value)
		q.HasMeta = true
	}
}

func WithStatus(status string) Option {
	return func(q *Query) {
		q.Status = status
	}
}

// Limit of 0 means no limit.
func Limit(n int) Option {
	return func(q *Query) {
		q.Limit = n
	}
}

// Offset only applies together with Limit.
func Offset(n int) Option {
	return func(q *Query) {
		q.Offset = n
	}
}
