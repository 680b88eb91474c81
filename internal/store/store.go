// Package store describes the persistence backend the migration runs against:
// typed records with key/value fields, hierarchical terms and attachments.
package store

import (
	"github.com/pkg/errors"
)

type RecordType string

const (
	TypeProduct      RecordType = "product"
	TypeShopOrder    RecordType = "shop_order"
	TypeStoreProduct RecordType = "store_product"
	TypeStoreOrder   RecordType = "store_order"
	TypeAttachment   RecordType = "attachment"
)

const (
	TaxonomyVelocityCategory = "category-product"
	TaxonomyWooCategory      = "product_cat"
	TaxonomyStoreCategory    = "store_product_cat"
)

const (
	StatusAny     = "any"
	StatusPublish = "publish"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrCreateFailed = errors.New("record creation failed")
	ErrTermExists   = errors.New("term already exists")
)

type Record struct {
	ID      int64
	Type    RecordType
	Title   string
	Content string
	Excerpt string
	Status  string
	Author  int64
	Date    string
	GUID    string
}

// RecordFields are the core columns of a new record. Empty Date means now.
type RecordFields struct {
	Title   string
	Content string
	Excerpt string
	Status  string
	Author  int64
	Date    string
}

type Term struct {
	ID         int64
	TaxonomyID int64
	Name       string
	Slug       string
	Taxonomy   string
	Parent     int64
}

// TermStore is the part of Backend the term reconciler needs.
type TermStore interface {
	GetTerm(termID int64, taxonomy string) (*Term, error)
	FindTermByName(name, taxonomy string) (*Term, error)
	CreateTerm(name, taxonomy, slug string, parent int64) (int64, error)
}

type Backend interface {
	TermStore

	// FindOne returns nil, nil when nothing matches.
	FindOne(t RecordType, opts ...Option) (*Record, error)
	FindAll(t RecordType, opts ...Option) ([]*Record, error)
	CreateRecord(t RecordType, fields RecordFields) (int64, error)

	SetField(id int64, key string, value interface{}) error
	GetField(id int64, key string) (string, error)
	GetFieldValues(id int64, key string) ([]MetaValue, error)
	Fields(id int64) (map[string][]MetaValue, error)

	AttachTerms(id int64, termIDs []int64, taxonomy string) error
	GetTerms(id int64, taxonomy string) ([]*Term, error)
	FindOrCreateTerm(name, taxonomy string, parent int64) (int64, error)

	ResolveAttachmentURL(id int64) (string, bool, error)
	SetFeaturedImage(id, attachmentID int64) error
	FeaturedImage(id int64) (int64, error)
}
